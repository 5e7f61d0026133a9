package store

import (
	"path/filepath"
	"testing"

	"github.com/coldtoo/rlogcore/raftlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *BoltStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEntriesPutGet(t *testing.T) {
	db := openTemp(t)

	entry := &raftlog.LogEntry{Index: 1, Term: 1, Command: raftlog.WriteCommand([]byte("hello"))}
	require.NoError(t, db.Entries().Put(1, entry))

	got, ok := db.Entries().Get(1)
	require.True(t, ok)
	assert.Equal(t, entry.Index, got.Index)
	assert.Equal(t, entry.Term, got.Term)
	assert.Equal(t, entry.Command.Payload, got.Command.Payload)
}

func TestEntriesOverwrite(t *testing.T) {
	db := openTemp(t)

	require.NoError(t, db.Entries().Put(2, &raftlog.LogEntry{Index: 2, Term: 1}))
	require.NoError(t, db.Entries().Put(2, &raftlog.LogEntry{Index: 2, Term: 5}))

	got, ok := db.Entries().Get(2)
	require.True(t, ok)
	assert.Equal(t, int64(5), got.Term)
}

func TestEntriesLastKeyAndKeys(t *testing.T) {
	db := openTemp(t)

	for _, idx := range []int64{1, 3, 7} {
		require.NoError(t, db.Entries().Put(idx, &raftlog.LogEntry{Index: idx, Term: 1}))
	}

	last, ok := db.Entries().LastKey()
	require.True(t, ok)
	assert.Equal(t, int64(7), last)
	assert.Equal(t, []int64{1, 3, 7}, db.Entries().Keys())
}

func TestEntriesDelete(t *testing.T) {
	db := openTemp(t)

	require.NoError(t, db.Entries().Put(1, &raftlog.LogEntry{Index: 1, Term: 1}))
	require.NoError(t, db.Entries().Delete(1))

	_, ok := db.Entries().Get(1)
	assert.False(t, ok)
	assert.True(t, db.Entries().IsEmpty())
}

func TestCommitIndexPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.CommitIndex().Set(42))
	require.NoError(t, db.Close())

	db2, err := Open(path)
	require.NoError(t, err)
	defer db2.Close()

	assert.Equal(t, int64(42), db2.CommitIndex().Get())
}

func TestSnapshotClockIncrement(t *testing.T) {
	db := openTemp(t)

	assert.Equal(t, int64(1), db.SnapshotClock().Increment())
	assert.Equal(t, int64(2), db.SnapshotClock().Increment())
	assert.Equal(t, int64(2), db.SnapshotClock().Get())
}

func TestSnapshotsPutGetDelete(t *testing.T) {
	db := openTemp(t)

	require.NoError(t, db.Snapshots().Put(1, []byte("state-1")))
	require.NoError(t, db.Snapshots().Put(2, []byte("state-2")))

	got, ok := db.Snapshots().Get(2)
	require.True(t, ok)
	assert.Equal(t, []byte("state-2"), got)

	assert.Equal(t, []int64{1, 2}, db.Snapshots().Keys())

	require.NoError(t, db.Snapshots().Delete(1))
	assert.Equal(t, []int64{2}, db.Snapshots().Keys())
}
