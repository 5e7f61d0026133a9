// Package statemachine provides KV, a small in-memory key/value
// raftlog.StateMachine used by the demo binary and tests. Command payloads
// and full-state snapshots are both gob-encoded, the same encoding the
// teacher's app.KvStore uses for its proposal payloads (app/kvstore.go's
// logfile.GobEncode).
package statemachine

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	"github.com/coldtoo/rlogcore/raftlog"
)

// OpKind distinguishes a KV write from a delete.
type OpKind uint8

const (
	OpPut OpKind = iota
	OpDelete
)

// Op is the payload a Command carries for this state machine.
type Op struct {
	Kind  OpKind
	Key   string
	Value []byte
}

// EncodeOp gob-encodes an Op for use as a Command's Payload.
func EncodeOp(op Op) []byte {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(op); err != nil {
		panic(fmt.Sprintf("statemachine: encode op: %v", err))
	}
	return buf.Bytes()
}

func decodeOp(payload []byte) (Op, error) {
	var op Op
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&op); err != nil {
		return Op{}, fmt.Errorf("statemachine: decode op: %w", err)
	}
	return op, nil
}

// KV is a trivial in-memory map state machine satisfying raftlog.StateMachine.
type KV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *KV {
	return &KV{data: make(map[string][]byte)}
}

// Apply executes a write or read command. Writes return nil; reads return
// the looked-up value (nil if absent).
func (kv *KV) Apply(cmd raftlog.Command) (any, error) {
	switch cmd.Kind {
	case raftlog.CommandWrite:
		op, err := decodeOp(cmd.Payload)
		if err != nil {
			return nil, err
		}
		kv.mu.Lock()
		switch op.Kind {
		case OpPut:
			kv.data[op.Key] = op.Value
		case OpDelete:
			delete(kv.data, op.Key)
		}
		kv.mu.Unlock()
		return nil, nil

	case raftlog.CommandRead:
		op, err := decodeOp(cmd.Payload)
		if err != nil {
			return nil, err
		}
		kv.mu.RLock()
		v, ok := kv.data[op.Key]
		kv.mu.RUnlock()
		if !ok {
			return nil, nil
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil

	default:
		return nil, nil
	}
}

// Serialize gob-encodes the entire map for a snapshot.
func (kv *KV) Serialize() ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(kv.data); err != nil {
		return nil, fmt.Errorf("statemachine: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize replaces the map's contents from a snapshot payload. An empty
// payload (fresh node, no snapshot yet) leaves the map empty.
func (kv *KV) Deserialize(data []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if len(data) == 0 {
		kv.data = make(map[string][]byte)
		return nil
	}

	m := make(map[string][]byte)
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return fmt.Errorf("statemachine: deserialize: %w", err)
	}
	kv.data = m
	return nil
}

// Get is a convenience direct read, bypassing raftlog.ExecuteRead's Command
// indirection — used by cmd/rlogd for local debugging only.
func (kv *KV) Get(key string) ([]byte, bool) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	v, ok := kv.data[key]
	return v, ok
}
