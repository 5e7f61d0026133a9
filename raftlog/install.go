package raftlog

import (
	"fmt"

	"github.com/coldtoo/rlogcore/logging"
	"github.com/coldtoo/rlogcore/raftlog/logpb"
	"github.com/dustin/go-humanize"
)

// InstallSnapshot is the only operation that takes the exclusive lock:
// replacing currentSnapshot, pruning the entries it subsumes, and restoring
// membership must all be observed atomically by every other operation,
// which only ever reads currentSnapshot under shared lock.
func (l *RLog) InstallSnapshot(snap *Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.installSnapshotLocked(snap)
}

func (l *RLog) installSnapshotLocked(snap *Snapshot) error {
	if SnapshotFormatVersion.LessThan(snap.FormatVersion) {
		return fmt.Errorf("snapshot format %s is newer than supported format %s", snap.FormatVersion, SnapshotFormatVersion)
	}

	if err := l.sm.Deserialize(snap.StateMachineState); err != nil {
		return fmt.Errorf("deserialize state machine from installed snapshot: %w", err)
	}

	clockKey := l.store.SnapshotClock().Increment()
	snap.CreatedAt = clockKey

	encoded := encodeSnapshot(snap)
	if err := l.store.Snapshots().Put(clockKey, encoded); err != nil {
		return err
	}

	for _, idx := range l.store.Entries().Keys() {
		if idx > snap.LastIndex {
			break
		}
		if err := l.store.Entries().Delete(idx); err != nil {
			logging.Error("snapshot install failed to prune entry").Err("err", err).Int("index", int(idx)).Record()
		}
	}

	l.currentSnapshot = snap
	l.cluster.RestoreMembership(snap.Membership)

	if lastLog := l.FindLastLogIndex(); lastLog > snap.LastIndex {
		l.lastLog.Store(lastLog)
	} else {
		l.lastLog.Store(snap.LastIndex)
	}

	if err := l.commitEntriesUntilLocked(snap.LastIndex); err != nil {
		return err
	}

	logging.Info("snapshot installed").
		Int("lastIndex", int(snap.LastIndex)).
		Int("lastTerm", int(snap.LastTerm)).
		Str("size", humanize.Bytes(uint64(len(snap.StateMachineState)))).
		Record()

	return nil
}

// buildAndInstallSnapshot is the compaction policy's default compactor:
// serialize the state machine, capture membership as of the entry at
// commitIndex, and install the result.
func (l *RLog) buildAndInstallSnapshot(upTo int64) error {
	l.mu.RLock()
	state, err := l.sm.Serialize()
	lastTerm := int64(0)
	if e, ok := l.getLogEntryLocked(upTo); ok {
		lastTerm = e.Term
	} else if l.currentSnapshot != nil && l.currentSnapshot.LastIndex == upTo {
		lastTerm = l.currentSnapshot.LastTerm
	}
	l.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("serialize state machine for snapshot: %w", err)
	}

	snap := &Snapshot{
		LastIndex:         upTo,
		LastTerm:          lastTerm,
		StateMachineState: state,
		FormatVersion:     SnapshotFormatVersion,
	}

	return l.InstallSnapshot(snap)
}

func encodeSnapshot(s *Snapshot) []byte {
	bindings := make([]logpb.Member, len(s.Membership))
	for i, m := range s.Membership {
		bindings[i] = logpb.Member{ID: m.ID, Address: m.Address}
	}
	return logpb.EncodeSnapshot(s.LastIndex, s.LastTerm, s.StateMachineState, bindings, s.FormatVersion)
}

func decodeSnapshot(data []byte) (*Snapshot, error) {
	d, err := logpb.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	membership := make([]Member, len(d.Membership))
	for i, m := range d.Membership {
		membership[i] = Member{ID: m.ID, Address: m.Address}
	}
	return &Snapshot{
		LastIndex:         d.LastIndex,
		LastTerm:          d.LastTerm,
		StateMachineState: d.StateMachineState,
		Membership:        membership,
		FormatVersion:     d.FormatVersion,
	}, nil
}
