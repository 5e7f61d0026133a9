package raftlog

import "github.com/coreos/go-semver/semver"

// SnapshotFormatVersion is bumped whenever the wire layout logpb uses to
// encode a Snapshot's StateMachineState envelope changes incompatibly. It
// guards the installer against a snapshot written by a newer, incompatible
// build rather than a newer cluster member.
var SnapshotFormatVersion = semver.Version{Major: 1, Minor: 0, Patch: 0}

// Snapshot is an immutable checkpoint of state-machine state plus
// membership, as of (LastIndex, LastTerm). CreatedAt is the totally ordered
// creation key the snapshot store uses; it is a logical clock value handed
// out by the durable store (see Store.SnapshotClock, persisted under the
// "snapshotClock" name), not wall-clock time, so two snapshots created
// within the same instant still sort unambiguously.
type Snapshot struct {
	LastIndex         int64
	LastTerm          int64
	StateMachineState []byte
	Membership        []Member
	FormatVersion     semver.Version
	CreatedAt         int64
}

// Covers reports whether this snapshot subsumes the (index, term) pair —
// invariant 6 and the coverage clause of containsEntry/tryAppend.
func (s *Snapshot) Covers(index, term int64) bool {
	if s == nil {
		return false
	}
	return s.LastIndex >= index && s.LastTerm >= term
}
