package raftlog

import (
	"fmt"

	"github.com/coldtoo/rlogcore/logging"
)

// recover is the Replay/Recovery collaborator, run once at construction:
// it loads the newest persisted snapshot (if any), restores
// the state machine and cluster membership from it, replays every entry
// after the snapshot up to the durable commitIndex (membership side effects
// via afterAppendLocked, then executeLocked), then primes lastLog from
// whatever entries survived in durable storage. commitIndex itself is
// already durable (it's an AtomicInteger the store persisted directly), so
// recovery never recomputes it.
func (l *RLog) recover() error {
	if err := l.restoreFromLatestSnapshotLocked(); err != nil {
		return fmt.Errorf("restore from snapshot: %w", err)
	}

	first := int64(1)
	if l.currentSnapshot != nil {
		first = l.currentSnapshot.LastIndex + 1
	}
	for i := first; i <= l.store.CommitIndex().Get(); i++ {
		e, ok := l.getLogEntryLocked(i)
		if !ok {
			logging.Warn("replay stopped at missing entry").Int("index", int(i)).Record()
			break
		}
		l.afterAppendLocked(e)
		if _, err := l.executeLocked(e); err != nil {
			return fmt.Errorf("replay entry %d: %w", i, err)
		}
	}

	lastLog := l.FindLastLogIndex()
	if l.currentSnapshot != nil && l.currentSnapshot.LastIndex > lastLog {
		lastLog = l.currentSnapshot.LastIndex
	}
	l.lastLog.Store(lastLog)

	return nil
}

func (l *RLog) restoreFromLatestSnapshotLocked() error {
	keys := l.store.Snapshots().Keys()
	if len(keys) == 0 {
		return nil
	}

	latest := keys[0]
	for _, k := range keys[1:] {
		if k > latest {
			latest = k
		}
	}

	data, ok := l.store.Snapshots().Get(latest)
	if !ok {
		return nil
	}

	snap, err := decodeSnapshot(data)
	if err != nil {
		return err
	}

	if err := l.sm.Deserialize(snap.StateMachineState); err != nil {
		return fmt.Errorf("deserialize state machine from snapshot: %w", err)
	}

	l.currentSnapshot = snap
	l.cluster.RestoreMembership(snap.Membership)

	logging.Info("restored snapshot").
		Int("lastIndex", int(snap.LastIndex)).
		Int("lastTerm", int(snap.LastTerm)).
		Record()

	return nil
}
