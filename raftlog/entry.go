package raftlog

// Sentinel index/term denoting "no previous entry" in an AppendEntries
// previous-entry check. Index and Term are int64, not uint64, specifically
// so this sentinel can be represented without a side channel.
const (
	SentinelIndex int64 = -1
	SentinelTerm  int64 = -1
)

// LogEntry is immutable once created; identity is (Index, Term). Two entries
// accepted at the same (Index, Term) are considered equal (invariant 3).
type LogEntry struct {
	Term    int64
	Index   int64
	Command Command
}

// AppendEntriesRequest is the RPC payload tryAppend validates and applies.
type AppendEntriesRequest struct {
	PrevLogIndex int64
	PrevLogTerm  int64
	Entries      []*LogEntry
	CommitIndex  int64
}
