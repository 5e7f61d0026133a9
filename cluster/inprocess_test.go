package cluster_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coldtoo/rlogcore/cluster"
	"github.com/coldtoo/rlogcore/raftlog"
	"github.com/coldtoo/rlogcore/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *store.BoltStore {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLocalTermDefaultsAndAdvances(t *testing.T) {
	c := cluster.New(openStore(t), nil, 0)
	assert.Equal(t, uint64(1), c.LocalTerm())

	c.AdvanceTerm(5)
	assert.Equal(t, uint64(5), c.LocalTerm())

	c.AdvanceTerm(3)
	assert.Equal(t, uint64(5), c.LocalTerm(), "term must never move backward")
}

func TestApplyEnterJointConsensusUpdatesMembers(t *testing.T) {
	c := cluster.New(openStore(t), nil, 0)
	bindings := []raftlog.Member{{ID: 1, Address: "a"}, {ID: 2, Address: "b"}}

	c.Apply(raftlog.EnterJointConsensus(bindings))

	assert.Equal(t, bindings, c.Members())
}

func TestApplyIgnoresNonJointConsensusCommands(t *testing.T) {
	c := cluster.New(openStore(t), []raftlog.Member{{ID: 9, Address: "x"}}, 0)
	c.Apply(raftlog.NoOp())
	assert.Equal(t, []raftlog.Member{{ID: 9, Address: "x"}}, c.Members())
}

func TestOnMajorityJointConsensus(t *testing.T) {
	c := cluster.New(openStore(t), nil, 0)

	assert.NoError(t, c.OnMajorityJointConsensus([]raftlog.Member{{ID: 1, Address: "a"}}))
	assert.ErrorIs(t, c.OnMajorityJointConsensus(nil), raftlog.ErrNoMajorityReached)
}

func TestInContextRunsF(t *testing.T) {
	c := cluster.New(openStore(t), nil, 0)
	ran := false
	c.InContext(context.Background(), func(ctx context.Context) { ran = true })
	assert.True(t, ran)
}

func TestRestoreMembershipReplacesMembers(t *testing.T) {
	c := cluster.New(openStore(t), []raftlog.Member{{ID: 1, Address: "a"}}, 0)
	c.RestoreMembership([]raftlog.Member{{ID: 2, Address: "b"}})
	assert.Equal(t, []raftlog.Member{{ID: 2, Address: "b"}}, c.Members())
}
