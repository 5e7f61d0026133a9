package store

import (
	"fmt"

	"github.com/coldtoo/rlogcore/raftlog"
	"github.com/coldtoo/rlogcore/raftlog/logpb"
	"go.etcd.io/bbolt"
)

// entryMap implements raftlog.TreeMap[int64, *raftlog.LogEntry] over the
// "entries" bucket, keyed by a fixed-width big-endian encoding of the index
// so bbolt's lexicographic byte ordering matches numeric ordering — the
// same trick aubg's BboltDb uses for its uint64ToBytes/bytesToUint64 pair.
type entryMap struct {
	db *bbolt.DB
}

func (m *entryMap) Get(key int64) (*raftlog.LogEntry, bool) {
	var entry *raftlog.LogEntry
	_ = m.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(entriesBucket).Get(logpb.PutFixedUint64(key))
		if data == nil {
			return nil
		}
		e, err := decodeEntry(data)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	return entry, entry != nil
}

func (m *entryMap) Put(key int64, val *raftlog.LogEntry) error {
	data := encodeEntry(val)
	err := m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(entriesBucket).Put(logpb.PutFixedUint64(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: put entry %d: %v", raftlog.ErrStorageFailure, key, err)
	}
	return nil
}

func (m *entryMap) Delete(key int64) error {
	err := m.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(entriesBucket).Delete(logpb.PutFixedUint64(key))
	})
	if err != nil {
		return fmt.Errorf("%w: delete entry %d: %v", raftlog.ErrStorageFailure, key, err)
	}
	return nil
}

func (m *entryMap) Size() int {
	n := 0
	_ = m.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(entriesBucket).Stats().KeyN
		return nil
	})
	return n
}

func (m *entryMap) IsEmpty() bool { return m.Size() == 0 }

func (m *entryMap) LastKey() (int64, bool) {
	var key int64
	var ok bool
	_ = m.db.View(func(tx *bbolt.Tx) error {
		k, _ := tx.Bucket(entriesBucket).Cursor().Last()
		if k == nil {
			return nil
		}
		key = logpb.GetFixedUint64(k)
		ok = true
		return nil
	})
	return key, ok
}

func (m *entryMap) LastEntry() (int64, *raftlog.LogEntry, bool) {
	var key int64
	var entry *raftlog.LogEntry
	_ = m.db.View(func(tx *bbolt.Tx) error {
		k, v := tx.Bucket(entriesBucket).Cursor().Last()
		if k == nil {
			return nil
		}
		e, err := decodeEntry(v)
		if err != nil {
			return err
		}
		key = logpb.GetFixedUint64(k)
		entry = e
		return nil
	})
	return key, entry, entry != nil
}

// Keys returns all entry indices in ascending order.
func (m *entryMap) Keys() []int64 {
	var keys []int64
	_ = m.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(entriesBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, logpb.GetFixedUint64(k))
			return nil
		})
	})
	return keys
}

func encodeEntry(e *raftlog.LogEntry) []byte {
	members := make([]logpb.Member, len(e.Command.NewBindings))
	for i, b := range e.Command.NewBindings {
		members[i] = logpb.Member{ID: b.ID, Address: b.Address}
	}
	return logpb.EncodeEntry(e.Term, e.Index, int8(e.Command.Kind), e.Command.Payload, members)
}

func decodeEntry(data []byte) (*raftlog.LogEntry, error) {
	d, err := logpb.DecodeEntry(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raftlog.ErrStorageFailure, err)
	}
	bindings := make([]raftlog.Member, len(d.Bindings))
	for i, b := range d.Bindings {
		bindings[i] = raftlog.Member{ID: b.ID, Address: b.Address}
	}
	return &raftlog.LogEntry{
		Term:  d.Term,
		Index: d.Index,
		Command: raftlog.Command{
			Kind:        raftlog.CommandKind(d.Kind),
			Payload:     d.Payload,
			NewBindings: bindings,
		},
	}, nil
}
