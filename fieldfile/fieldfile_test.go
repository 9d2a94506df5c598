package fieldfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/x2rest/x2"
)

func TestParseFields(t *testing.T) {
	t.Run("yaml keeps order and types", func(t *testing.T) {
		fields, err := ParseFields([]byte(`
lastName: Doe
firstName: Jane
dupeCheck: 0
doNotCall: true
notes: null
`))
		require.NoError(t, err)

		assert.Equal(t, []string{"lastName", "firstName", "dupeCheck", "doNotCall", "notes"}, fields.Keys())
		v, _ := fields.Get("dupeCheck")
		assert.Equal(t, 0, v)
		v, _ = fields.Get("doNotCall")
		assert.Equal(t, true, v)
		assert.True(t, fields.Has("notes"))
		assert.False(t, fields.IsSet("notes"))
	})

	t.Run("json is yaml", func(t *testing.T) {
		fields, err := ParseFields([]byte(`{"email": "jane@example.com", "firstName": "Jane"}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"email", "firstName"}, fields.Keys())
	})

	t.Run("empty document", func(t *testing.T) {
		fields, err := ParseFields(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, fields.Len())
	})

	t.Run("not a mapping", func(t *testing.T) {
		_, err := ParseFields([]byte(`[a, b]`))
		assert.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseFields([]byte("a: [unclosed"))
		require.Error(t, err)
	})
}

func TestParseMapper(t *testing.T) {
	mapper, err := ParseMapper([]byte(`
First Name: firstName
E-Mail: email
`))
	require.NoError(t, err)
	assert.Equal(t, x2.Mapper{"First Name": "firstName", "E-Mail": "email"}, mapper)

	_, err = ParseMapper([]byte(`first: ""`))
	require.Error(t, err)

	_, err = ParseMapper([]byte(`first: [a]`))
	require.Error(t, err)
}

func TestParsePairs(t *testing.T) {
	fields, err := ParsePairs([]string{"firstName=Jane", "notes=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []string{"firstName", "notes", "empty"}, fields.Keys())
	v, _ := fields.Get("notes")
	assert.Equal(t, "a=b", v)

	_, err = ParsePairs([]string{"novalue"})
	require.Error(t, err)
	_, err = ParsePairs([]string{"=x"})
	require.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	fieldsPath := filepath.Join(dir, "contact.yaml")
	mapperPath := filepath.Join(dir, "mapper.yaml")
	require.NoError(t, os.WriteFile(fieldsPath, []byte("first: Jane\n"), 0o600))
	require.NoError(t, os.WriteFile(mapperPath, []byte("first: firstName\n"), 0o600))

	fields, err := LoadFields(fieldsPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, fields.Keys())

	mapper, err := LoadMapper(mapperPath)
	require.NoError(t, err)
	assert.Equal(t, "firstName", mapper["first"])

	_, err = LoadFields(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
