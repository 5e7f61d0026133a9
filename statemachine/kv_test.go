package statemachine_test

import (
	"testing"

	"github.com/coldtoo/rlogcore/raftlog"
	"github.com/coldtoo/rlogcore/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPutThenGet(t *testing.T) {
	kv := statemachine.New()

	_, err := kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{
		Kind: statemachine.OpPut, Key: "a", Value: []byte("1"),
	})))
	require.NoError(t, err)

	v, ok := kv.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)
}

func TestApplyDelete(t *testing.T) {
	kv := statemachine.New()
	_, _ = kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "a", Value: []byte("1")})))
	_, err := kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpDelete, Key: "a"})))
	require.NoError(t, err)

	_, ok := kv.Get("a")
	assert.False(t, ok)
}

func TestApplyReadReturnsValue(t *testing.T) {
	kv := statemachine.New()
	_, _ = kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "a", Value: []byte("1")})))

	result, err := kv.Apply(raftlog.ReadCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "a"})))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), result)
}

func TestApplyReadMissingKeyReturnsNil(t *testing.T) {
	kv := statemachine.New()
	result, err := kv.Apply(raftlog.ReadCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "missing"})))
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	kv := statemachine.New()
	_, _ = kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "a", Value: []byte("1")})))
	_, _ = kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "b", Value: []byte("2")})))

	data, err := kv.Serialize()
	require.NoError(t, err)

	restored := statemachine.New()
	require.NoError(t, restored.Deserialize(data))

	v, ok := restored.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	v, ok = restored.Get("b")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), v)
}

func TestDeserializeEmptyPayloadYieldsEmptyMap(t *testing.T) {
	kv := statemachine.New()
	_, _ = kv.Apply(raftlog.WriteCommand(statemachine.EncodeOp(statemachine.Op{Kind: statemachine.OpPut, Key: "a", Value: []byte("1")})))

	require.NoError(t, kv.Deserialize(nil))

	_, ok := kv.Get("a")
	assert.False(t, ok)
}
