package store

import (
	"encoding/binary"
	"fmt"

	"github.com/coldtoo/rlogcore/raftlog"
	"go.etcd.io/bbolt"
)

// atomicInt implements raftlog.AtomicInteger as a single key in the "meta"
// bucket. bbolt serializes all updates through one writer transaction per
// database, which is what gives Set its atomicity.
type atomicInt struct {
	db     *bbolt.DB
	bucket []byte
	key    []byte
}

func (a *atomicInt) Get() int64 { return a.IntValue() }

func (a *atomicInt) IntValue() int64 {
	var v int64
	_ = a.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(a.bucket).Get(a.key)
		if data == nil {
			return nil
		}
		v = int64(binary.BigEndian.Uint64(data))
		return nil
	})
	return v
}

func (a *atomicInt) Increment() int64 {
	var next int64
	_ = a.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(a.bucket)
		data := b.Get(a.key)
		var cur int64
		if data != nil {
			cur = int64(binary.BigEndian.Uint64(data))
		}
		next = cur + 1
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(next))
		return b.Put(a.key, buf)
	})
	return next
}

func (a *atomicInt) Set(v int64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(v))
	err := a.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(a.bucket).Put(a.key, buf)
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", raftlog.ErrStorageFailure, a.key, err)
	}
	return nil
}
