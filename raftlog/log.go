package raftlog

import "github.com/coldtoo/rlogcore/logging"

// TryAppend is the follower-side AppendEntries path. It
// returns true iff the log contains an entry matching (PrevLogIndex,
// PrevLogTerm), or that pair is the sentinel, or the current snapshot
// covers it. On success every supplied entry is inserted idempotently,
// commit advances up to req.CommitIndex, and compaction is evaluated
// asynchronously once the lock is released.
func (l *RLog) TryAppend(req AppendEntriesRequest) bool {
	l.mu.RLock()

	if !l.containsEntryLocked(req.PrevLogIndex, req.PrevLogTerm) {
		l.mu.RUnlock()
		return false
	}

	for _, e := range req.Entries {
		l.insertEntryLocked(e)
	}

	if err := l.commitEntriesUntilLocked(req.CommitIndex); err != nil {
		logging.Error("commit during tryAppend failed").Err("err", err).Record()
	}

	l.mu.RUnlock()

	l.compaction.evaluateAsync()
	return true
}

// Append is the leader-side local append path: same idempotent insertion,
// but it never moves commitIndex — that only happens once a majority has
// acknowledged replication, via Commit.
func (l *RLog) Append(entries []*LogEntry) {
	l.mu.RLock()
	for _, e := range entries {
		l.insertEntryLocked(e)
	}
	l.mu.RUnlock()

	l.compaction.evaluateAsync()
}

// ContainsEntry reports whether entries[index].Term == term, or (index,
// term) is the sentinel, or the current snapshot covers (index, term).
func (l *RLog) ContainsEntry(index, term int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.containsEntryLocked(index, term)
}

func (l *RLog) containsEntryLocked(index, term int64) bool {
	if index == SentinelIndex && term == SentinelTerm {
		return true
	}
	if e, ok := l.store.Entries().Get(index); ok && e.Term == term {
		return true
	}
	return l.currentSnapshot.Covers(index, term)
}

// GetLogEntry returns the entry at i, if any.
func (l *RLog) GetLogEntry(i int64) (*LogEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.getLogEntryLocked(i)
}

func (l *RLog) getLogEntryLocked(i int64) (*LogEntry, bool) {
	return l.store.Entries().Get(i)
}

// GetPreviousLogEntry returns the entry immediately preceding e.
func (l *RLog) GetPreviousLogEntry(e *LogEntry) (*LogEntry, bool) {
	return l.GetLogEntry(e.Index - 1)
}

// GetLastLogEntry returns the highest-index entry known to the log. If the
// real maximum index is covered by the current snapshot, it synthesizes a
// CompactedEntry placeholder instead of reading (already-pruned) storage.
func (l *RLog) GetLastLogEntry() *LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lastIdx := l.lastLog.Load()
	if l.currentSnapshot != nil && l.currentSnapshot.LastIndex >= lastIdx {
		return &LogEntry{
			Term:    l.currentSnapshot.LastTerm,
			Index:   l.currentSnapshot.LastIndex,
			Command: Command{Kind: CommandCompactedEntry},
		}
	}

	e, ok := l.store.Entries().Get(lastIdx)
	if !ok {
		return nil
	}
	return e
}

// NextLogIndex atomically allocates and returns the next dense index for a
// leader-side local append.
func (l *RLog) NextLogIndex() int64 {
	return l.lastLog.Add(1)
}

// FindLastLogIndex returns the maximum index present in the durable entry
// store, or 0 if empty. Used at construction and after snapshot install.
func (l *RLog) FindLastLogIndex() int64 {
	if k, ok := l.store.Entries().LastKey(); ok {
		return k
	}
	return 0
}

// insertEntryLocked inserts e if its (index, term) is not already present.
// A collision at the same index with a different term is skipped, not
// truncated — a deliberate deviation from Raft's textbook-prescribed suffix
// truncation, relying on leader discipline to never produce such a
// collision (see DESIGN.md for the recorded decision). Returns true if e
// was newly inserted (as opposed to skipped as a duplicate or conflict).
func (l *RLog) insertEntryLocked(e *LogEntry) bool {
	existing, ok := l.store.Entries().Get(e.Index)
	if ok {
		if existing.Term == e.Term {
			logging.Warn("duplicate append skipped").Int("index", int(e.Index)).Int("term", int(e.Term)).Record()
		} else {
			logging.Warn("index collision with different term skipped, not truncated").
				Int("index", int(e.Index)).Int("existingTerm", int(existing.Term)).Int("incomingTerm", int(e.Term)).Record()
		}
		return false
	}

	if err := l.store.Entries().Put(e.Index, e); err != nil {
		logging.Error("append failed to persist entry").Err("err", err).Int("index", int(e.Index)).Record()
		return false
	}

	for {
		cur := l.lastLog.Load()
		if e.Index <= cur || l.lastLog.CompareAndSwap(cur, e.Index) {
			break
		}
	}

	l.afterAppendLocked(e)
	return true
}

// afterAppendLocked activates a joint-consensus command eagerly at append
// time, rather than waiting for commit.
func (l *RLog) afterAppendLocked(e *LogEntry) {
	switch e.Command.Kind {
	case CommandEnterJointConsensus, CommandLeaveJointConsensus:
		l.cluster.Apply(e.Command)
	}
}
