// Package store is the durable KV store backing the replicated log:
// ordered-integer-keyed maps and durable atomic integers, grounded on
// IvanObreshkov-aubg-cos-senior-project's internal/raft/storage.BboltDb,
// which stores protobuf-marshaled *proto.LogEntry values in a bbolt bucket
// keyed by big-endian uint64 index; this package keeps that shape but keys
// by int64 (to make room for the sentinel-adjacent arithmetic raftlog does)
// and encodes entries with raftlog/logpb instead of generated protobuf.
package store

import (
	"fmt"

	"github.com/coldtoo/rlogcore/raftlog"
	"go.etcd.io/bbolt"
)

var (
	entriesBucket   = []byte("entries")
	snapshotsBucket = []byte("snapshots")
	metaBucket      = []byte("meta")

	commitIndexKey   = []byte("commitIndex")
	snapshotClockKey = []byte("snapshotClock")
)

// BoltStore implements raftlog.Store over a single go.etcd.io/bbolt file,
// reserving three persisted names: "entries", "commitIndex", and
// "snapshots".
type BoltStore struct {
	db *bbolt.DB

	entries       *entryMap
	snapshots     *snapshotMap
	commitIndex   *atomicInt
	snapshotClock *atomicInt
}

// Open opens (creating if absent) the bbolt file at path and prepares its
// buckets.
func Open(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open bbolt db %s: %v", raftlog.ErrStorageFailure, path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{entriesBucket, snapshotsBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", raftlog.ErrStorageFailure, err)
	}

	s := &BoltStore{db: db}
	s.entries = &entryMap{db: db}
	s.snapshots = &snapshotMap{db: db}
	s.commitIndex = &atomicInt{db: db, bucket: metaBucket, key: commitIndexKey}
	s.snapshotClock = &atomicInt{db: db, bucket: metaBucket, key: snapshotClockKey}
	return s, nil
}

func (s *BoltStore) Entries() raftlog.TreeMap[int64, *raftlog.LogEntry] { return s.entries }
func (s *BoltStore) Snapshots() raftlog.TreeMap[int64, []byte]         { return s.snapshots }
func (s *BoltStore) CommitIndex() raftlog.AtomicInteger                { return s.commitIndex }
func (s *BoltStore) SnapshotClock() raftlog.AtomicInteger              { return s.snapshotClock }

func (s *BoltStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", raftlog.ErrStorageFailure, err)
	}
	return nil
}
