package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	t.Run("valid document", func(t *testing.T) {
		doc := `{"github_token":"t","github_repo":"a/b","directory_path":"/notes"}`
		assert.NoError(t, v.ValidateJSON([]byte(doc)))
	})

	t.Run("missing fields are allowed", func(t *testing.T) {
		assert.NoError(t, v.ValidateJSON([]byte(`{"github_repo":"a/b"}`)))
	})

	t.Run("wrong field type", func(t *testing.T) {
		err := v.ValidateJSON([]byte(`{"github_token":42}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "/github_token")
	})

	t.Run("not an object", func(t *testing.T) {
		assert.Error(t, v.ValidateJSON([]byte(`["a"]`)))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		err := v.ValidateJSON([]byte(`{"github_token":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid JSON")
	})

	t.Run("struct", func(t *testing.T) {
		doc := struct {
			Token string `json:"github_token"`
		}{Token: "x"}
		assert.NoError(t, v.Validate(doc))
	})
}

func TestEmbeddedIsCopy(t *testing.T) {
	a := Embedded()
	a[0] = 'X'
	assert.Equal(t, byte('{'), Embedded()[0])
}
