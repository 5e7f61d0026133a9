// Package cluster provides InProcess, a single-process stand-in for the
// consensus-module collaborator raftlog.Cluster requires. It tracks the
// local term and membership but has no election or RPC transport of its
// own — it is meant for the demo binary and tests, where the log core's
// collaborator contract matters more than an actual multi-node election
// protocol.
package cluster

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/coldtoo/rlogcore/logging"
	"github.com/coldtoo/rlogcore/raftlog"
)

// InProcess implements raftlog.Cluster.
type InProcess struct {
	currentTerm atomic.Uint64

	fixedLogSizeCompaction uint64

	mu      sync.RWMutex
	members []raftlog.Member

	store raftlog.Store
}

// New constructs an InProcess cluster seeded with the given membership and
// store handle, and configured to trigger compaction once the log reaches
// fixedLogSizeCompaction entries (0 disables compaction).
func New(store raftlog.Store, members []raftlog.Member, fixedLogSizeCompaction uint64) *InProcess {
	c := &InProcess{store: store, members: members, fixedLogSizeCompaction: fixedLogSizeCompaction}
	c.currentTerm.Store(1)
	return c
}

func (c *InProcess) LocalTerm() uint64 { return c.currentTerm.Load() }

// AdvanceTerm bumps the local term, used by callers driving leader election
// external to this package (e.g. the demo binary's CLI).
func (c *InProcess) AdvanceTerm(term uint64) {
	for {
		cur := c.currentTerm.Load()
		if term <= cur || c.currentTerm.CompareAndSwap(cur, term) {
			return
		}
	}
}

// Apply activates a joint-consensus command at append time. Since
// InProcess has no peers to coordinate with, entering joint consensus
// immediately commits to the new membership; leave-joint-consensus is a
// no-op because enter already installed it.
func (c *InProcess) Apply(cmd raftlog.Command) {
	if cmd.Kind != raftlog.CommandEnterJointConsensus {
		return
	}
	c.mu.Lock()
	c.members = append([]raftlog.Member(nil), cmd.NewBindings...)
	c.mu.Unlock()

	logging.Info("cluster membership updated").Int("members", len(cmd.NewBindings)).Record()
}

// OnMajorityJointConsensus always succeeds for InProcess: there is exactly
// one voter, so any non-empty configuration is trivially a majority.
func (c *InProcess) OnMajorityJointConsensus(bindings []raftlog.Member) error {
	if len(bindings) == 0 {
		return raftlog.ErrNoMajorityReached
	}
	return nil
}

// InContext runs f synchronously on the calling goroutine with ctx as
// given; it adds no logging fields or values to ctx.
func (c *InProcess) InContext(ctx context.Context, f func(context.Context)) {
	f(ctx)
}

func (c *InProcess) FixedLogSizeCompaction() uint64 { return c.fixedLogSizeCompaction }

func (c *InProcess) RestoreMembership(members []raftlog.Member) {
	c.mu.Lock()
	c.members = append([]raftlog.Member(nil), members...)
	c.mu.Unlock()
}

func (c *InProcess) Members() []raftlog.Member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]raftlog.Member(nil), c.members...)
}

func (c *InProcess) DB() raftlog.Store { return c.store }
