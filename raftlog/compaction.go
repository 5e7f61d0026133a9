package raftlog

import (
	"sort"
	"sync/atomic"

	"github.com/coldtoo/rlogcore/logging"
)

// compactionPolicy is the Compaction Policy collaborator: a small fixed
// worker pool evaluates, on every append, whether the log has reached
// the cluster's configured fixed size, and if so builds and installs a
// snapshot. Submissions above the pool's capacity are rejected
// synchronously rather than queued, the same non-blocking select/default
// shape a fixed connection pool uses to dispatch outbound messages.
type compactionPolicy struct {
	log          *RLog
	fixedLogSize uint64
	retention    int

	compacting atomic.Bool
	work       chan struct{}
	done       chan struct{}
}

func newCompactionPolicy(l *RLog, fixedLogSize uint64, poolSize, retention int) *compactionPolicy {
	cp := &compactionPolicy{
		log:          l,
		fixedLogSize: fixedLogSize,
		retention:    retention,
		work:         make(chan struct{}, poolSize),
		done:         make(chan struct{}),
	}
	for i := 0; i < poolSize; i++ {
		go cp.runWorker()
	}
	return cp
}

func (cp *compactionPolicy) runWorker() {
	for {
		select {
		case <-cp.work:
			cp.evaluate()
		case <-cp.done:
			return
		}
	}
}

// evaluateAsync submits a compaction check to the worker pool. If every
// worker is already busy and the buffered channel is full, the submission
// is rejected on the spot — the next append will try again.
func (cp *compactionPolicy) evaluateAsync() {
	select {
	case cp.work <- struct{}{}:
	default:
		logging.Debug("compaction submission rejected, pool saturated").Record()
	}
}

func (cp *compactionPolicy) stop() {
	close(cp.done)
}

// evaluate runs one compaction pass if the log holds at least
// fixedLogSize entries. The compacting flag is CAS-guarded so that, even with two
// pool workers, only one compaction is ever in flight.
func (cp *compactionPolicy) evaluate() {
	if cp.fixedLogSize == 0 {
		return
	}
	if !cp.compacting.CompareAndSwap(false, true) {
		return
	}
	defer cp.compacting.Store(false)

	l := cp.log
	l.mu.RLock()
	commitIndex := l.store.CommitIndex().Get()
	size := uint64(l.store.Entries().Size())
	l.mu.RUnlock()

	if size < cp.fixedLogSize {
		return
	}

	if err := l.buildAndInstallSnapshot(commitIndex); err != nil {
		logging.Error("compaction failed to build snapshot").Err("err", err).Record()
		return
	}

	cp.pruneRetention()
}

// pruneRetention keeps only the newest `retention` snapshots in the durable
// store, deleting older ones so the snapshot map doesn't grow without
// bound (decision recorded in DESIGN.md).
func (cp *compactionPolicy) pruneRetention() {
	if cp.retention <= 0 {
		return
	}

	keys := cp.log.store.Snapshots().Keys()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	if len(keys) <= cp.retention {
		return
	}

	for _, k := range keys[:len(keys)-cp.retention] {
		if err := cp.log.store.Snapshots().Delete(k); err != nil {
			logging.Error("snapshot retention prune failed").Err("err", err).Int("key", int(k)).Record()
		}
	}
}
