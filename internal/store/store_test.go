package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestConversationRoundtrip(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveConversation("t1", []byte(`{"history":[]}`)))

	state, err := st.LoadConversation("t1")
	require.NoError(t, err)
	assert.Equal(t, `{"history":[]}`, string(state))
}

func TestSaveConversationUpserts(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveConversation("t1", []byte(`first`)))
	require.NoError(t, st.SaveConversation("t1", []byte(`second`)))

	state, err := st.LoadConversation("t1")
	require.NoError(t, err)
	assert.Equal(t, "second", string(state))
}

func TestLoadConversationNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.LoadConversation("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteConversation(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveConversation("t1", []byte(`state`)))
	require.NoError(t, st.DeleteConversation("t1"))

	_, err := st.LoadConversation("t1")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting a missing thread is not an error.
	assert.NoError(t, st.DeleteConversation("t1"))
}

func TestSheetLifecycle(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.CreateSheet("s1", "Inventory"))

	exists, err := st.SheetExists("s1")
	require.NoError(t, err)
	assert.True(t, exists)

	header := []string{"product_id", "name"}
	rows := [][]string{{"P-001", "Mouse"}, {"P-002", "Novel"}}
	require.NoError(t, st.WriteSheetRows("s1", header, rows))

	title, gotHeader, gotRows, err := st.ReadSheet("s1")
	require.NoError(t, err)
	assert.Equal(t, "Inventory", title)
	assert.Equal(t, header, gotHeader)
	assert.Equal(t, rows, gotRows)
}

func TestWriteSheetRowsUnknownSheet(t *testing.T) {
	st := newTestStore(t)

	err := st.WriteSheetRows("missing", []string{"a"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadSheetUnknownSheet(t *testing.T) {
	st := newTestStore(t)

	_, _, _, err := st.ReadSheet("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSheetExistsMissing(t *testing.T) {
	st := newTestStore(t)

	exists, err := st.SheetExists("missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateSheetDuplicateID(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.CreateSheet("s1", "Inventory"))
	assert.Error(t, st.CreateSheet("s1", "Other"))
}
