// Package raftlog is the replicated log (RLog) core: it owns the ordered
// sequence of replicated commands, enforces Raft's Log Matching, Leader
// Completeness, and State-Machine Safety properties, commits entries
// against a pluggable state machine, and triggers/installs snapshots for
// log compaction. Leader election, RPC transport, and wire encoding are
// addressed only through the Cluster/StateMachine/Store interfaces this
// package requires of its collaborators.
package raftlog

import (
	"sync"
	"sync/atomic"

	"github.com/coldtoo/rlogcore/logging"
)

// RLog is the Concurrency Envelope wrapped around the Log Manipulator,
// Commit Applier, Compaction Policy, Snapshot Installer, and
// Replay/Recovery. One sync.RWMutex protects all of it: shared mode for
// every operation except installSnapshot, which alone takes the exclusive
// lock.
type RLog struct {
	mu sync.RWMutex

	store   Store
	cluster Cluster
	sm      StateMachine

	// lastLog mirrors the current maximum index present in entries; kept
	// outside the mutex since nextLogIndex must be allocatable without
	// blocking on in-flight reads.
	lastLog atomic.Int64

	// currentSnapshot is read under shared lock and only ever replaced
	// under the exclusive lock held by installSnapshot, matching
	// component H's rule that no operation may observe a partial install.
	currentSnapshot *Snapshot

	compaction *compactionPolicy
}

// Option configures an RLog at construction.
type Option func(*RLog)

// WithSnapshotRetention overrides the compaction policy's default
// retention of 3 snapshots.
func WithSnapshotRetention(n int) Option {
	return func(l *RLog) { l.compaction.retention = n }
}

// New constructs an RLog over store/cluster/sm and runs Replay/Recovery
// before returning, so the returned RLog is immediately consistent with
// whatever commitIndex was last persisted.
func New(store Store, cluster Cluster, sm StateMachine, opts ...Option) (*RLog, error) {
	l := &RLog{store: store, cluster: cluster, sm: sm}
	l.compaction = newCompactionPolicy(l, cluster.FixedLogSizeCompaction(), defaultWorkerPoolSize, defaultSnapshotRetention)

	for _, opt := range opts {
		opt(l)
	}

	if err := l.recover(); err != nil {
		return nil, err
	}

	logging.Info("raftlog recovered").Int("lastLog", int(l.lastLog.Load())).Record()
	return l, nil
}

// Close stops the compaction worker pool and closes the durable store.
func (l *RLog) Close() error {
	l.compaction.stop()
	return l.store.Close()
}

const (
	defaultWorkerPoolSize    = 2
	defaultSnapshotRetention = 3
)
