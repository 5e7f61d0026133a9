// Package logpb encodes LogEntry, Command, and Snapshot to and from bytes
// for the durable store. There is no generated .proto package available
// here, so this package hand-writes the same kind of Marshal/Unmarshal pair
// gogoproto's protoc plugin would generate — a flat sequence of
// varint-prefixed fields — built directly on proto.EncodeVarint and
// proto.DecodeVarint, the primitives that generated code calls under the
// hood. It is wire-compatible with the varint/length-delimited shape of
// protobuf; it is not a general-purpose protobuf encoder.
package logpb

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/gogo/protobuf/proto"
)

// PutUvarint appends the varint encoding of v to buf.
func PutUvarint(buf []byte, v uint64) []byte {
	return append(buf, proto.EncodeVarint(v)...)
}

// GetUvarint reads a varint from buf, returning the value and the number of
// bytes consumed.
func GetUvarint(buf []byte) (uint64, int) {
	return proto.DecodeVarint(buf)
}

func putBytes(buf []byte, b []byte) []byte {
	buf = PutUvarint(buf, uint64(len(b)))
	return append(buf, b...)
}

func getBytes(buf []byte) ([]byte, []byte, error) {
	n, adv := GetUvarint(buf)
	if adv == 0 {
		return nil, nil, fmt.Errorf("logpb: truncated length prefix")
	}
	buf = buf[adv:]
	if uint64(len(buf)) < n {
		return nil, nil, fmt.Errorf("logpb: truncated payload, want %d have %d", n, len(buf))
	}
	return buf[:n], buf[n:], nil
}

// EncodeEntry encodes (term, index, commandKind, payload, bindings) as a
// flat varint/length-delimited record, CRC32-checked so a truncated or
// corrupted record is detected on decode rather than silently misparsed.
func EncodeEntry(term, index int64, kind int8, payload []byte, bindings []Member) []byte {
	body := make([]byte, 0, 32+len(payload))
	body = PutUvarint(body, uint64(term))
	body = PutUvarint(body, uint64(index))
	body = append(body, byte(kind))
	body = putBytes(body, payload)
	body = PutUvarint(body, uint64(len(bindings)))
	for _, m := range bindings {
		body = PutUvarint(body, m.ID)
		body = putBytes(body, []byte(m.Address))
	}

	crc := crc32.ChecksumIEEE(body)
	out := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(out, crc)
	return append(out, body...)
}

// Member mirrors raftlog.Member without importing raftlog, so logpb stays
// a leaf package relative to the package it serializes for.
type Member struct {
	ID      uint64
	Address string
}

// DecodedEntry is the result of DecodeEntry.
type DecodedEntry struct {
	Term     int64
	Index    int64
	Kind     int8
	Payload  []byte
	Bindings []Member
}

func DecodeEntry(buf []byte) (*DecodedEntry, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("logpb: entry too short")
	}
	crc := binary.LittleEndian.Uint32(buf[:4])
	body := buf[4:]
	if got := crc32.ChecksumIEEE(body); got != crc {
		return nil, fmt.Errorf("logpb: checksum mismatch, want %x got %x", crc, got)
	}

	term, adv := GetUvarint(body)
	if adv == 0 {
		return nil, fmt.Errorf("logpb: truncated term")
	}
	body = body[adv:]

	index, adv := GetUvarint(body)
	if adv == 0 {
		return nil, fmt.Errorf("logpb: truncated index")
	}
	body = body[adv:]

	if len(body) < 1 {
		return nil, fmt.Errorf("logpb: truncated kind")
	}
	kind := int8(body[0])
	body = body[1:]

	payload, body, err := getBytes(body)
	if err != nil {
		return nil, err
	}

	count, adv := GetUvarint(body)
	if adv == 0 {
		return nil, fmt.Errorf("logpb: truncated binding count")
	}
	body = body[adv:]

	bindings := make([]Member, 0, count)
	for i := uint64(0); i < count; i++ {
		id, adv := GetUvarint(body)
		if adv == 0 {
			return nil, fmt.Errorf("logpb: truncated binding id")
		}
		body = body[adv:]

		addr, rest, err := getBytes(body)
		if err != nil {
			return nil, err
		}
		body = rest

		bindings = append(bindings, Member{ID: id, Address: string(addr)})
	}

	return &DecodedEntry{
		Term:     int64(term),
		Index:    int64(index),
		Kind:     kind,
		Payload:  payload,
		Bindings: bindings,
	}, nil
}
