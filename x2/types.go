package x2

import (
	"strconv"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entity names used by the client itself
const (
	EntityContacts = "Contacts"
)

// Field types the client treats specially
const (
	FieldTypeDropdown = "dropdown"
	FieldTypeEmail    = "email"
)

// Entity is a CRM record as returned by the API. Only a handful of keys are
// ever inspected; everything else is passed through untouched.
type Entity map[string]any

// ID returns the record ID. IDs arrive as JSON numbers or numeric strings
// depending on the endpoint.
func (e Entity) ID() (int64, bool) {
	v, ok := e["id"]
	if !ok || v == nil {
		return 0, false
	}
	id, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return id, true
}

// String returns the value under key rendered as a string
func (e Entity) String(key string) string {
	return cast.ToString(e[key])
}

// Mapper renames caller keys to canonical field names before schema lookup
type Mapper map[string]string

// Field describes one attribute of an entity type
type Field struct {
	FieldName      string    `json:"fieldName"`
	AttributeLabel string    `json:"attributeLabel,omitempty"`
	Type           string    `json:"type"`
	Required       bool      `json:"required"`
	LinkType       string    `json:"linkType,omitempty"`
	Dropdown       *Dropdown `json:"dropdownInfo,omitempty"`

	Raw Entity `json:"-"`
}

func newField(e Entity) *Field {
	return &Field{
		FieldName:      e.String("fieldName"),
		AttributeLabel: e.String("attributeLabel"),
		Type:           e.String("type"),
		Required:       cast.ToBool(e["required"]),
		LinkType:       e.String("linkType"),
		Raw:            e,
	}
}

// IsDropdown reports whether the field takes values from a dropdown catalog
func (f *Field) IsDropdown() bool {
	return f.Type == FieldTypeDropdown
}

// Schema maps field names to descriptors in the order the server listed them
type Schema struct {
	m *orderedmap.OrderedMap[string, *Field]
}

func newSchema() *Schema {
	return &Schema{m: orderedmap.New[string, *Field]()}
}

func (s *Schema) add(f *Field) {
	s.m.Set(f.FieldName, f)
}

// Get returns the descriptor for name
func (s *Schema) Get(name string) (*Field, bool) {
	if s == nil || s.m == nil {
		return nil, false
	}
	return s.m.Get(name)
}

// Len returns the number of fields
func (s *Schema) Len() int {
	if s == nil || s.m == nil {
		return 0
	}
	return s.m.Len()
}

// Fields returns the descriptors in schema order
func (s *Schema) Fields() []*Field {
	return s.Filter(func(*Field) bool { return true })
}

// Names returns the field names in schema order
func (s *Schema) Names() []string {
	fields := s.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.FieldName
	}
	return names
}

// Filter returns the descriptors matching keep, in schema order
func (s *Schema) Filter(keep func(*Field) bool) []*Field {
	var out []*Field
	if s == nil || s.m == nil {
		return out
	}
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		if keep(pair.Value) {
			out = append(out, pair.Value)
		}
	}
	return out
}

// Dropdown is a reusable option set referenced by dropdown fields through
// their link type.
type Dropdown struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Multi   bool              `json:"multi"`
	Options map[string]string `json:"options"`
}

func newDropdown(e Entity) *Dropdown {
	d := &Dropdown{
		ID:      e.String("id"),
		Name:    e.String("name"),
		Multi:   cast.ToBool(e["multi"]),
		Options: make(map[string]string),
	}

	switch opts := e["options"].(type) {
	case map[string]any:
		for value, label := range opts {
			d.Options[value] = cast.ToString(label)
		}
	case []any:
		// list-shaped option sets are keyed by position
		for i, label := range opts {
			d.Options[strconv.Itoa(i)] = cast.ToString(label)
		}
	}
	return d
}

// HasOption reports whether value is one of the dropdown's option keys
func (d *Dropdown) HasOption(value any) bool {
	if d == nil {
		return false
	}
	key, err := cast.ToStringE(value)
	if err != nil {
		return false
	}
	_, ok := d.Options[key]
	return ok
}

// Verification is the outcome of checking submitted fields against a schema
type Verification struct {
	Verified        *Fields           `json:"verifiedFields"`
	Ignored         map[string]string `json:"ignoredFields"`
	Fields          *Schema           `json:"-"`
	MissingRequired map[string]string `json:"missingRequired"`
}

func newVerification(schema *Schema) *Verification {
	return &Verification{
		Verified: NewFields(),
		Ignored:  make(map[string]string),
		Fields:   schema,
	}
}

// ContactResult is returned by contact writes. When a create is missing
// required fields only MissingRequired is set and nothing was written.
type ContactResult struct {
	Contact         Entity            `json:"contact,omitempty"`
	Ignored         map[string]string `json:"ignoredFields,omitempty"`
	MissingRequired map[string]string `json:"missingRequired,omitempty"`
}

// Written reports whether the CRM accepted the write
func (r *ContactResult) Written() bool {
	return r != nil && r.Contact != nil
}
