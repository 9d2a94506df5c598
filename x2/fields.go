package x2

import (
	"encoding/json"
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Fields is an ordered bag of field name to value. Iteration follows
// insertion order, which is also the key order of the JSON object it
// marshals to. The zero value is ready to use.
type Fields struct {
	m *orderedmap.OrderedMap[string, any]
}

// NewFields creates an empty field bag
func NewFields() *Fields {
	return &Fields{m: orderedmap.New[string, any]()}
}

func (f *Fields) init() {
	if f.m == nil {
		f.m = orderedmap.New[string, any]()
	}
}

// With sets key to value and returns the bag, for building literals.
func (f *Fields) With(key string, value any) *Fields {
	f.Set(key, value)
	return f
}

// Set stores value under key. Setting an existing key keeps its position.
func (f *Fields) Set(key string, value any) {
	f.init()
	f.m.Set(key, value)
}

// Get returns the value stored under key
func (f *Fields) Get(key string) (any, bool) {
	if f == nil || f.m == nil {
		return nil, false
	}
	return f.m.Get(key)
}

// Has reports whether key is present, even with a nil value
func (f *Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}

// IsSet reports whether key is present with a non-nil value
func (f *Fields) IsSet(key string) bool {
	v, ok := f.Get(key)
	return ok && v != nil
}

// IsEmpty reports whether key is absent or holds an empty value
// (nil, false, 0, "", "0" or an empty collection).
func (f *Fields) IsEmpty(key string) bool {
	v, ok := f.Get(key)
	return !ok || isEmptyValue(v)
}

// Delete removes key
func (f *Fields) Delete(key string) {
	if f == nil || f.m == nil {
		return
	}
	f.m.Delete(key)
}

// Len returns the number of keys
func (f *Fields) Len() int {
	if f == nil || f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Keys returns the keys in insertion order
func (f *Fields) Keys() []string {
	keys := make([]string, 0, f.Len())
	f.Each(func(key string, _ any) {
		keys = append(keys, key)
	})
	return keys
}

// Each calls fn for every pair in insertion order
func (f *Fields) Each(fn func(key string, value any)) {
	if f == nil || f.m == nil {
		return
	}
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// Clone returns a shallow copy
func (f *Fields) Clone() *Fields {
	out := NewFields()
	f.Each(out.Set)
	return out
}

// MarshalJSON encodes the bag as a JSON object in insertion order
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil || f.m == nil {
		return []byte("{}"), nil
	}
	return f.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping the document's key order
func (f *Fields) UnmarshalJSON(data []byte) error {
	f.m = orderedmap.New[string, any]()
	return f.m.UnmarshalJSON(data)
}

var _ json.Marshaler = (*Fields)(nil)

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == "" || val == "0"
	case bool:
		return !val
	case json.Number:
		return val.String() == "0"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
