package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/todos/internal/model"
)

func TestEncodeEmpty(t *testing.T) {
	b, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(b))
}

func TestEncodeWireFormat(t *testing.T) {
	b, err := Encode([]model.Task{{ID: "a", Title: "Buy milk", Completed: true}})
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"a","title":"Buy milk","completed":true}]`, string(b))
	require.Equal(t, `[
  {
    "id": "a",
    "title": "Buy milk",
    "completed": true
  }
]
`, string(b))
}

func TestDecodeRoundTrip(t *testing.T) {
	in := []model.Task{
		{ID: "c", Title: "Walk dog"},
		{ID: "b", Title: "", Completed: true},
		{ID: "a", Title: "Buy milk", Completed: true},
	}
	b, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodeEmptyArray(t *testing.T) {
	out, err := Decode([]byte(`[]`))
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)
}

func TestDecodeRejectsInvalid(t *testing.T) {
	_, err := Decode([]byte(`[{"id":1,"title":"x","completed":false}]`))
	require.ErrorContains(t, err, "invalid snapshot")
}
