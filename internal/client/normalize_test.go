package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type normalizeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNormalizeList_BareArray(t *testing.T) {
	raw := json.RawMessage(`[{"id":"a","name":"Alpha"},{"id":"b","name":"Beta"}]`)
	items, err := NormalizeList[normalizeItem](raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Alpha", items[0].Name)
	assert.Equal(t, "b", items[1].ID)
}

func TestNormalizeList_PaginationEnvelope(t *testing.T) {
	raw := json.RawMessage(`{"count":2,"next":null,"previous":null,"results":[{"id":"a"},{"id":"b"}]}`)
	items, err := NormalizeList[normalizeItem](raw)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
}

func TestNormalizeList_EmptyShapes(t *testing.T) {
	for _, raw := range []string{"", "null", "  ", "[]", `{"results":[]}`} {
		items, err := NormalizeList[normalizeItem](json.RawMessage(raw))
		require.NoError(t, err, "input %q", raw)
		assert.Empty(t, items, "input %q", raw)
	}
}

func TestNormalizeList_Malformed(t *testing.T) {
	_, err := NormalizeList[normalizeItem](json.RawMessage(`[{"id":`))
	assert.Error(t, err)

	_, err = NormalizeList[normalizeItem](json.RawMessage(`{"results":"nope"}`))
	assert.Error(t, err)
}
