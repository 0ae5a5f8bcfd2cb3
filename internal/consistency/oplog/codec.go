package oplog

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/louisbranch/dislocation.network/internal/consistency/domain"
	"github.com/louisbranch/dislocation.network/internal/geometry"
	"github.com/louisbranch/dislocation.network/internal/platform/errors"
)

// EntryWireSize is the fixed length of one encoded entry: seven int32
// fields (kind plus three domain/index pairs) followed by nine float64
// fields (Burgers vector, position, plane normal), little-endian, in the
// order given below.
const EntryWireSize = 7*4 + 9*8

// MarshalBinary encodes the entry as a fixed-width record:
// {kind, dom1, idx1, dom2, idx2, dom3, idx3, bx, by, bz, x, y, z, nx, ny, nz}.
func (e Entry) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, EntryWireSize)
	return e.AppendTo(buf), nil
}

// AppendTo appends the entry's wire record to buf and returns the extended
// slice. It never fails; batch encoders use it to avoid per-entry
// allocations.
func (e Entry) AppendTo(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(e.Kind))
	for _, tag := range []domain.Tag{e.Tag1, e.Tag2, e.Tag3} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(tag.Domain)))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(tag.Index)))
	}
	for _, vec := range []geometry.Vec3{e.Burg, e.Pos, e.Plane} {
		for _, c := range vec {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(c))
		}
	}
	return buf
}

// UnmarshalBinary decodes a fixed-width wire record into the entry.
func (e *Entry) UnmarshalBinary(data []byte) error {
	if len(data) < EntryWireSize {
		return errors.New(errors.CodeOpRecordTooShort,
			fmt.Sprintf("op record is %d bytes, need %d", len(data), EntryWireSize))
	}

	e.Kind = Kind(int32(binary.LittleEndian.Uint32(data[0:4])))
	off := 4
	for _, tag := range []*domain.Tag{&e.Tag1, &e.Tag2, &e.Tag3} {
		tag.Domain = int(int32(binary.LittleEndian.Uint32(data[off : off+4])))
		tag.Index = int(int32(binary.LittleEndian.Uint32(data[off+4 : off+8])))
		off += 8
	}
	for _, vec := range []*geometry.Vec3{&e.Burg, &e.Pos, &e.Plane} {
		for c := 0; c < 3; c++ {
			vec[c] = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+8]))
			off += 8
		}
	}

	if e.Kind < KindUnspecified || e.Kind > KindChangeConnection {
		return errors.New(errors.CodeOpRecordCorrupt,
			fmt.Sprintf("op record carries unknown kind %d", e.Kind))
	}
	return nil
}

// EncodeBatch encodes entries back to back in order, producing the payload
// the transport collaborator ships at a synchronization boundary.
func EncodeBatch(entries []Entry) []byte {
	buf := make([]byte, 0, len(entries)*EntryWireSize)
	for _, e := range entries {
		buf = e.AppendTo(buf)
	}
	return buf
}

// DecodeBatch decodes a payload produced by EncodeBatch, preserving entry
// order.
func DecodeBatch(data []byte) ([]Entry, error) {
	if len(data)%EntryWireSize != 0 {
		return nil, errors.New(errors.CodeOpRecordCorrupt,
			fmt.Sprintf("op batch of %d bytes is not a whole number of records", len(data)))
	}
	entries := make([]Entry, 0, len(data)/EntryWireSize)
	for off := 0; off < len(data); off += EntryWireSize {
		var e Entry
		if err := e.UnmarshalBinary(data[off : off+EntryWireSize]); err != nil {
			return nil, fmt.Errorf("decode op record %d: %w", off/EntryWireSize, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
