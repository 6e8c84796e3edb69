package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactsSetGetRoundTrip(t *testing.T) {
	a := Artifacts{}

	type payload struct {
		Scenes []string `json:"scenes"`
	}
	require.NoError(t, a.Set("scenes", payload{Scenes: []string{"one", "two"}}))

	var got payload
	require.NoError(t, a.Get("scenes", &got))
	assert.Equal(t, []string{"one", "two"}, got.Scenes)
}

func TestArtifactsText(t *testing.T) {
	a := Artifacts{}
	require.NoError(t, a.SetText("script", "hello world"))

	got, ok := a.Text("script")
	require.True(t, ok)
	assert.Equal(t, "hello world", got)

	_, ok = a.Text("missing")
	assert.False(t, ok)
}

func TestArtifactsGetMissingKey(t *testing.T) {
	a := Artifacts{}
	var out string
	assert.Error(t, a.Get("nope", &out))
}

func TestArtifactsHas(t *testing.T) {
	a := Artifacts{
		"text":         json.RawMessage(`"value"`),
		"list":         json.RawMessage(`["x"]`),
		"object":       json.RawMessage(`{"k":"v"}`),
		"empty_text":   json.RawMessage(`""`),
		"empty_list":   json.RawMessage(`[]`),
		"empty_object": json.RawMessage(`{}`),
		"null":         json.RawMessage(`null`),
		"blank":        json.RawMessage(``),
	}

	assert.True(t, a.Has("text"))
	assert.True(t, a.Has("list"))
	assert.True(t, a.Has("object"))

	assert.False(t, a.Has("empty_text"), "empty string does not fulfil an output contract")
	assert.False(t, a.Has("empty_list"))
	assert.False(t, a.Has("empty_object"))
	assert.False(t, a.Has("null"))
	assert.False(t, a.Has("blank"))
	assert.False(t, a.Has("missing"))
}
