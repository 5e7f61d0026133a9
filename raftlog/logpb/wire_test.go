package logpb_test

import (
	"testing"

	"github.com/coldtoo/rlogcore/raftlog/logpb"
	"github.com/coreos/go-semver/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEntryRoundTrip(t *testing.T) {
	bindings := []logpb.Member{{ID: 1, Address: "n1:9000"}, {ID: 2, Address: "n2:9000"}}
	buf := logpb.EncodeEntry(7, 42, 3, []byte("payload"), bindings)

	decoded, err := logpb.DecodeEntry(buf)
	require.NoError(t, err)

	assert.Equal(t, int64(7), decoded.Term)
	assert.Equal(t, int64(42), decoded.Index)
	assert.Equal(t, int8(3), decoded.Kind)
	assert.Equal(t, []byte("payload"), decoded.Payload)
	assert.Equal(t, bindings, decoded.Bindings)
}

func TestEncodeDecodeEntryNoBindings(t *testing.T) {
	buf := logpb.EncodeEntry(1, 1, 0, nil, nil)

	decoded, err := logpb.DecodeEntry(buf)
	require.NoError(t, err)
	assert.Empty(t, decoded.Payload)
	assert.Empty(t, decoded.Bindings)
}

func TestDecodeEntryDetectsChecksumMismatch(t *testing.T) {
	buf := logpb.EncodeEntry(1, 1, 0, []byte("x"), nil)
	buf[len(buf)-1] ^= 0xFF

	_, err := logpb.DecodeEntry(buf)
	assert.Error(t, err)
}

func TestDecodeEntryRejectsTruncatedInput(t *testing.T) {
	_, err := logpb.DecodeEntry([]byte{1, 2})
	assert.Error(t, err)
}

func TestEncodeDecodeSnapshotRoundTrip(t *testing.T) {
	version := semver.Version{Major: 1, Minor: 2, Patch: 3}
	membership := []logpb.Member{{ID: 1, Address: "n1"}}

	buf := logpb.EncodeSnapshot(10, 2, []byte("state"), membership, version)

	decoded, err := logpb.DecodeSnapshot(buf)
	require.NoError(t, err)

	assert.Equal(t, int64(10), decoded.LastIndex)
	assert.Equal(t, int64(2), decoded.LastTerm)
	assert.Equal(t, []byte("state"), decoded.StateMachineState)
	assert.Equal(t, membership, decoded.Membership)
	assert.Equal(t, version, decoded.FormatVersion)
}

func TestFixedUint64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 42, 1 << 40} {
		assert.Equal(t, v, logpb.GetFixedUint64(logpb.PutFixedUint64(v)))
	}
}
