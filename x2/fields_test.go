package x2

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsOrder(t *testing.T) {
	f := NewFields().
		With("zeta", 1).
		With("alpha", "a").
		With("mid", nil)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.Keys())

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":1,"alpha":"a","mid":null}`, string(data))
	assert.Equal(t, `{"zeta":1,"alpha":"a","mid":null}`, string(data))

	// overwriting keeps the original position
	f.Set("zeta", 2)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, f.Keys())
	v, ok := f.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestFieldsUnmarshalKeepsDocumentOrder(t *testing.T) {
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(`{"lastName":"Doe","firstName":"Jane","age":40}`), &f))

	assert.Equal(t, []string{"lastName", "firstName", "age"}, f.Keys())
	v, _ := f.Get("age")
	assert.Equal(t, float64(40), v)
}

func TestFieldsZeroValue(t *testing.T) {
	var f Fields
	assert.Equal(t, 0, f.Len())
	assert.False(t, f.Has("x"))

	f.Set("x", 1)
	assert.Equal(t, 1, f.Len())

	var nilFields *Fields
	assert.Equal(t, 0, nilFields.Len())
	assert.Empty(t, nilFields.Keys())
	data, err := nilFields.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestFieldsIsSetAndIsEmpty(t *testing.T) {
	f := NewFields().
		With("nil", nil).
		With("emptyString", "").
		With("zeroString", "0").
		With("zero", 0).
		With("zeroFloat", 0.0).
		With("false", false).
		With("emptySlice", []any{}).
		With("one", 1).
		With("text", "x")

	tests := []struct {
		key   string
		set   bool
		empty bool
	}{
		{"missing", false, true},
		{"nil", false, true},
		{"emptyString", true, true},
		{"zeroString", true, true},
		{"zero", true, true},
		{"zeroFloat", true, true},
		{"false", true, true},
		{"emptySlice", true, true},
		{"one", true, false},
		{"text", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.set, f.IsSet(tt.key))
			assert.Equal(t, tt.empty, f.IsEmpty(tt.key))
		})
	}
}

func TestFieldsCloneAndDelete(t *testing.T) {
	f := NewFields().With("a", 1).With("b", 2)
	c := f.Clone()
	c.Delete("a")

	assert.Equal(t, []string{"a", "b"}, f.Keys())
	assert.Equal(t, []string{"b"}, c.Keys())
}

func TestEntityID(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		id     int64
		ok     bool
	}{
		{"json number", Entity{"id": float64(12)}, 12, true},
		{"numeric string", Entity{"id": "34"}, 34, true},
		{"int", Entity{"id": 5}, 5, true},
		{"missing", Entity{"name": "x"}, 0, false},
		{"null", Entity{"id": nil}, 0, false},
		{"garbage", Entity{"id": "abc"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := tt.entity.ID()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestDropdownHasOption(t *testing.T) {
	keyed := newDropdown(Entity{"id": float64(103), "options": map[string]any{"Google": "Google", "1": "One"}})
	assert.Equal(t, "103", keyed.ID)
	assert.True(t, keyed.HasOption("Google"))
	assert.True(t, keyed.HasOption(1))
	assert.False(t, keyed.HasOption("Bing"))
	assert.False(t, keyed.HasOption(nil))

	listed := newDropdown(Entity{"id": "104", "options": []any{"Low", "High"}})
	assert.True(t, listed.HasOption("0"))
	assert.True(t, listed.HasOption(float64(1)))
	assert.False(t, listed.HasOption("Low"))

	var missing *Dropdown
	assert.False(t, missing.HasOption("Google"))
}
