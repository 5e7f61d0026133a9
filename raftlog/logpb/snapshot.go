package logpb

import (
	"encoding/binary"
	"fmt"

	"github.com/coreos/go-semver/semver"
)

// DecodedSnapshot is the result of DecodeSnapshot.
type DecodedSnapshot struct {
	LastIndex         int64
	LastTerm          int64
	StateMachineState []byte
	Membership        []Member
	FormatVersion     semver.Version
}

// EncodeSnapshot is the wire envelope persisted in the "snapshots" map.
func EncodeSnapshot(lastIndex, lastTerm int64, state []byte, membership []Member, version semver.Version) []byte {
	versionStr := version.String()

	buf := make([]byte, 0, 64+len(state))
	buf = PutUvarint(buf, uint64(lastIndex))
	buf = PutUvarint(buf, uint64(lastTerm))
	buf = putBytes(buf, []byte(versionStr))
	buf = putBytes(buf, state)
	buf = PutUvarint(buf, uint64(len(membership)))
	for _, m := range membership {
		buf = PutUvarint(buf, m.ID)
		buf = putBytes(buf, []byte(m.Address))
	}
	return buf
}

func DecodeSnapshot(buf []byte) (*DecodedSnapshot, error) {
	lastIndex, adv := GetUvarint(buf)
	if adv == 0 {
		return nil, fmt.Errorf("logpb: truncated snapshot lastIndex")
	}
	buf = buf[adv:]

	lastTerm, adv := GetUvarint(buf)
	if adv == 0 {
		return nil, fmt.Errorf("logpb: truncated snapshot lastTerm")
	}
	buf = buf[adv:]

	versionBytes, buf, err := getBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("snapshot version: %w", err)
	}
	version, err := semver.NewVersion(string(versionBytes))
	if err != nil {
		return nil, fmt.Errorf("snapshot version %q: %w", versionBytes, err)
	}

	state, buf, err := getBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("snapshot state: %w", err)
	}

	count, adv := GetUvarint(buf)
	if adv == 0 {
		return nil, fmt.Errorf("logpb: truncated snapshot membership count")
	}
	buf = buf[adv:]

	membership := make([]Member, 0, count)
	for i := uint64(0); i < count; i++ {
		id, adv := GetUvarint(buf)
		if adv == 0 {
			return nil, fmt.Errorf("logpb: truncated snapshot member id")
		}
		buf = buf[adv:]

		addr, rest, err := getBytes(buf)
		if err != nil {
			return nil, err
		}
		buf = rest

		membership = append(membership, Member{ID: id, Address: string(addr)})
	}

	return &DecodedSnapshot{
		LastIndex:         int64(lastIndex),
		LastTerm:          int64(lastTerm),
		StateMachineState: state,
		Membership:        membership,
		FormatVersion:     *version,
	}, nil
}

// PutFixedUint64 / GetFixedUint64 are kept for callers (store package) that need a
// fixed-width key encoding rather than a varint, e.g. bbolt bucket keys
// that must sort in numeric order under a lexicographic byte comparator.
func PutFixedUint64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

func GetFixedUint64(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}
