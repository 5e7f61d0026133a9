package raftlog

import "errors"

// ErrStaleTermCommit marks a commit requested for an entry whose term
// doesn't match the cluster's current local term. It is never returned to
// callers — Commit logs it at warn and refuses the commit without mutating
// anything — but is attached to that log line so the refusal is traceable.
var ErrStaleTermCommit = errors.New("raftlog: commit refused, stale term")

// ErrNoMajorityReached is returned by a Cluster collaborator when a
// joint-consensus follow-up fails to reach majority. The log core logs and
// swallows it; the Raft retransmission path is expected to retry.
var ErrNoMajorityReached = errors.New("raftlog: no majority reached for joint consensus")

// ErrStorageFailure wraps any failure surfaced by the durable store. The log
// core never attempts to recover from it. Commit and InstallSnapshot return
// it to the caller; Append and TryAppend log a failed entry write at error
// and do not return it.
var ErrStorageFailure = errors.New("raftlog: durable store failure")
