package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	Notes Field[string]   `json:"notes"`
	Tags  Field[[]string] `json:"tags"`
}

func TestField_TracksPresenceAndNull(t *testing.T) {
	var p patch
	require.NoError(t, json.Unmarshal([]byte(`{"notes":null}`), &p))

	assert.True(t, p.Notes.Set)
	assert.Nil(t, p.Notes.Value)
	assert.False(t, p.Tags.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"notes":"hola","tags":["a"]}`), &p))
	require.NotNil(t, p.Notes.Value)
	assert.Equal(t, "hola", *p.Notes.Value)
	assert.Equal(t, []string{"a"}, *p.Tags.Value)
}

func TestField_RejectsWrongType(t *testing.T) {
	var p patch
	require.Error(t, json.Unmarshal([]byte(`{"notes":12}`), &p))
}
