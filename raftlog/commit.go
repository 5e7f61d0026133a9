package raftlog

import (
	"fmt"

	"github.com/coldtoo/rlogcore/logging"
)

// Commit is the leader-side path: once a majority of the cluster has
// acknowledged entry e, Commit advances commitIndex up to e.Index and
// applies every newly committed entry to the state machine in order.
// Entries committed out of the caller's control (e.g. a follower that
// already advanced past e via TryAppend) make this a no-op. An entry that
// is neither in the log nor covered by the current snapshot is a hole:
// Commit logs it at error and panics. Commit is only
// valid when e's term equals the cluster's current local term; anything
// else is a stale-term commit, refused with a warn log and no mutation.
func (l *RLog) Commit(e *LogEntry) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, ok := l.getLogEntryLocked(e.Index); !ok && !l.currentSnapshot.Covers(e.Index, e.Term) {
		logging.Error("commit requested for missing log entry").
			Int("index", int(e.Index)).
			Int("term", int(e.Term)).
			Record()
		panic(fmt.Sprintf("raftlog: missing log entry at index %d, term %d", e.Index, e.Term))
	}

	localTerm := l.cluster.LocalTerm()
	if uint64(e.Term) != localTerm {
		logging.Warn("commit refused, stale term").
			Err("err", ErrStaleTermCommit).
			Int("index", int(e.Index)).
			Int("entryTerm", int(e.Term)).
			Uint64("localTerm", localTerm).
			Record()
		return nil
	}

	return l.commitEntriesUntilLocked(e.Index)
}

// commitEntriesUntilLocked advances commitIndex up to target, applying each
// newly committed entry to the state machine along the way. It never moves
// commitIndex past a hole in the log: if entries[i] is missing for some i
// <= target, commitIndex stops at the last index successfully applied and
// the hole is tolerated rather than treated as fatal (decision recorded in
// DESIGN.md). Callers must already hold l.mu, shared or exclusive.
func (l *RLog) commitEntriesUntilLocked(target int64) error {
	cur := l.store.CommitIndex().Get()
	if target <= cur {
		return nil
	}

	if l.lastLog.Load() >= 0 && target > l.lastLog.Load() {
		target = l.lastLog.Load()
	}

	for i := cur + 1; i <= target; i++ {
		if err := l.safeCommitLocked(i); err != nil {
			if err == errHoleEncountered {
				logging.Warn("commit stopped at hole").Int("index", int(i)).Record()
				return nil
			}
			return err
		}
	}
	return nil
}

var errHoleEncountered = fmt.Errorf("raftlog: hole encountered during commit")

// safeCommitLocked applies and commits entry i iff i is present (a
// covered-by-snapshot index is treated as already committed). The
// stale-term check happens once, in Commit, against the entry that
// triggered this advance; safeCommitLocked itself only guards against holes.
func (l *RLog) safeCommitLocked(i int64) error {
	if l.currentSnapshot != nil && l.currentSnapshot.LastIndex >= i {
		return l.store.CommitIndex().Set(i)
	}

	e, ok := l.getLogEntryLocked(i)
	if !ok {
		return errHoleEncountered
	}

	if _, err := l.executeLocked(e); err != nil {
		return err
	}

	return l.store.CommitIndex().Set(i)
}

// executeLocked applies a single committed entry's command to the state
// machine. NoOp, CompactedEntry, and LeaveJointConsensus are no-ops here
// (membership changes are already activated at append time by
// afterAppendLocked). EnterJointConsensus additionally asks the cluster, in
// a separate goroutine, to reach majority on its new bindings; a failure is
// logged at warn and not returned.
func (l *RLog) executeLocked(e *LogEntry) (any, error) {
	switch e.Command.Kind {
	case CommandEnterJointConsensus:
		index, bindings := e.Index, e.Command.NewBindings
		go func() {
			if err := l.cluster.OnMajorityJointConsensus(bindings); err != nil {
				logging.Warn("joint consensus majority not reached").Err("err", err).Int("index", int(index)).Record()
			}
		}()
		return nil, nil
	case CommandNoOp, CommandCompactedEntry, CommandLeaveJointConsensus:
		return nil, nil
	default:
		result, err := l.sm.Apply(e.Command)
		if err != nil {
			logging.Error("state machine apply failed").Err("err", err).Int("index", int(e.Index)).Record()
			return nil, err
		}
		return result, nil
	}
}

// ExecuteRead applies a read-only command directly against the state
// machine without appending it to the log, bypassing replication entirely.
// Callers are responsible for establishing read safety (e.g. a leader
// lease or a read index) before invoking this.
func (l *RLog) ExecuteRead(cmd Command) (any, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sm.Apply(cmd)
}
