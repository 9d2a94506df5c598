// Package filter evaluates expr-lang expressions against CRM records.
//
// Every key of a record is available as a variable, so
//
//	id > 100 and hasText(email, "@example.com")
//
// keeps records with an id above 100 and an example.com address. The
// case-insensitive helpers are named hasText, hasPrefix and hasSuffix
// because contains, startsWith and endsWith are expr operators
// (email contains "@example.com" also works, case-sensitively). Keys that
// are not valid identifiers can be reached through record, e.g.
// record["c_lead-score"]. Missing keys evaluate to nil.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"

	"github.com/s0up4200/x2rest/x2"
)

// ExprFilter represents a compiled expr filter
type ExprFilter struct {
	program *vm.Program
	expr    string
}

// helpers are available to every expression
func helpers() map[string]any {
	return map[string]any{
		// String helpers
		"hasText": func(str, substr any) bool {
			return strings.Contains(strings.ToLower(cast.ToString(str)), strings.ToLower(cast.ToString(substr)))
		},
		"hasPrefix": func(str, prefix any) bool {
			return strings.HasPrefix(strings.ToLower(cast.ToString(str)), strings.ToLower(cast.ToString(prefix)))
		},
		"hasSuffix": func(str, suffix any) bool {
			return strings.HasSuffix(strings.ToLower(cast.ToString(str)), strings.ToLower(cast.ToString(suffix)))
		},
		"lower": func(str any) string { return strings.ToLower(cast.ToString(str)) },
		"upper": func(str any) string { return strings.ToUpper(cast.ToString(str)) },

		// Numbers arrive as JSON numbers or numeric strings
		"num": func(v any) float64 { return cast.ToFloat64(v) },

		// X2 stores dates as unix seconds
		"toTime": func(v any) time.Time {
			return time.Unix(cast.ToInt64(v), 0)
		},
		"daysSince": func(v any) int {
			return int(time.Since(time.Unix(cast.ToInt64(v), 0)).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},

		// Current time
		"now": time.Now,
	}
}

// CompileExprFilter compiles an expr filter expression
func CompileExprFilter(expression string) (*ExprFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty filter expression"}
	}

	env := helpers()
	env["record"] = map[string]any{}

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &ExprFilter{
		program: program,
		expr:    expression,
	}, nil
}

// Evaluate evaluates the filter against a record
func (f *ExprFilter) Evaluate(record x2.Entity) (bool, error) {
	env := make(map[string]any, len(record)+12)
	for key, value := range record {
		env[key] = value
	}
	// helpers shadow record keys of the same name
	for key, value := range helpers() {
		env[key] = value
	}
	env["record"] = map[string]any(record)

	result, err := expr.Run(f.program, env)
	if err != nil {
		id, _ := record.ID()
		return false, &EvaluationError{Expression: f.expr, RecordID: id, Reason: err.Error(), Err: err}
	}

	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("filter '%s' returned %T, not bool", f.expr, result)
	}
	return matched, nil
}

// Apply returns the records the filter keeps, in their original order
func (f *ExprFilter) Apply(records []x2.Entity) ([]x2.Entity, error) {
	var out []x2.Entity
	for _, r := range records {
		ok, err := f.Evaluate(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ApplyByID filters an ID-keyed set of records
func (f *ExprFilter) ApplyByID(records map[int64]x2.Entity) (map[int64]x2.Entity, error) {
	ids := make([]int64, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make(map[int64]x2.Entity)
	for _, id := range ids {
		ok, err := f.Evaluate(records[id])
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = records[id]
		}
	}
	return out, nil
}

// String returns the original expression
func (f *ExprFilter) String() string {
	return f.expr
}
