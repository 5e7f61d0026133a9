package store

import (
	"fmt"

	"github.com/coldtoo/rlogcore/raftlog"
	"github.com/coldtoo/rlogcore/raftlog/logpb"
	"go.etcd.io/bbolt"
)

// snapshotMap implements raftlog.TreeMap[int64, []byte] over the
// "snapshots" bucket, keyed by creation timestamp.
type snapshotMap struct {
	db *bbolt.DB
}

func (m *snapshotMap) Get(key int64) ([]byte, bool) {
	var val []byte
	_ = m.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(snapshotsBucket).Get(logpb.PutFixedUint64(key))
		if data == nil {
			return nil
		}
		val = append([]byte(nil), data...)
		return nil
	})
	return val, val != nil
}

func (m *snapshotMap) Put(key int64, val []byte) error {
	err := m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put(logpb.PutFixedUint64(key), val)
	})
	if err != nil {
		return fmt.Errorf("%w: put snapshot %d: %v", raftlog.ErrStorageFailure, key, err)
	}
	return nil
}

func (m *snapshotMap) Delete(key int64) error {
	err := m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Delete(logpb.PutFixedUint64(key))
	})
	if err != nil {
		return fmt.Errorf("%w: delete snapshot %d: %v", raftlog.ErrStorageFailure, key, err)
	}
	return nil
}

func (m *snapshotMap) Size() int {
	n := 0
	_ = m.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(snapshotsBucket).Stats().KeyN
		return nil
	})
	return n
}

func (m *snapshotMap) IsEmpty() bool { return m.Size() == 0 }

func (m *snapshotMap) LastKey() (int64, bool) {
	var key int64
	var ok bool
	_ = m.db.View(func(tx *bbolt.Tx) error {
		k, _ := tx.Bucket(snapshotsBucket).Cursor().Last()
		if k == nil {
			return nil
		}
		key = logpb.GetFixedUint64(k)
		ok = true
		return nil
	})
	return key, ok
}

func (m *snapshotMap) LastEntry() (int64, []byte, bool) {
	var key int64
	var val []byte
	_ = m.db.View(func(tx *bbolt.Tx) error {
		k, v := tx.Bucket(snapshotsBucket).Cursor().Last()
		if k == nil {
			return nil
		}
		key = logpb.GetFixedUint64(k)
		val = append([]byte(nil), v...)
		return nil
	})
	return key, val, val != nil
}

// Keys returns all snapshot timestamps in ascending order. Used by the
// compactor's retention policy to find and prune the oldest snapshots.
func (m *snapshotMap) Keys() []int64 {
	var keys []int64
	_ = m.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, logpb.GetFixedUint64(k))
			return nil
		})
	})
	return keys
}
