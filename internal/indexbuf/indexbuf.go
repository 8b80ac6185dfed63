// Package indexbuf decodes mesh index streams into a width-agnostic buffer.
package indexbuf

import (
	"encoding/binary"
	"errors"
	"fmt"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/version"
)

// ErrElementSize is returned for an index element size other than 2 or 4 bytes.
var ErrElementSize = errors.New("unknown index element size")

// Buffer holds 16-bit or 32-bit indices. The zero value is an empty 16-bit buffer.
type Buffer struct {
	i16  []uint16
	i32  []uint32
	wide bool
}

func New16(idx []uint16) Buffer { return Buffer{i16: idx} }
func New32(idx []uint32) Buffer { return Buffer{i32: idx, wide: true} }

// Sequential returns the 32-bit buffer 0, 1, ..., n-1.
func Sequential(n int) Buffer {
	idx := make([]uint32, n)
	for i := range idx {
		idx[i] = uint32(i)
	}
	return New32(idx)
}

func (b Buffer) Len() int {
	if b.wide {
		return len(b.i32)
	}
	return len(b.i16)
}

// IsWide reports whether indices are stored as 32-bit values.
func (b Buffer) IsWide() bool { return b.wide }

func (b Buffer) At(i int) uint32 {
	if b.wide {
		return b.i32[i]
	}
	return uint32(b.i16[i])
}

// Uint32s returns a widened copy of the indices.
func (b Buffer) Uint32s() []uint32 {
	out := make([]uint32, b.Len())
	for i := range out {
		out[i] = b.At(i)
	}
	return out
}

// Validate checks that every index addresses one of vertexCount vertices.
func (b Buffer) Validate(vertexCount int) error {
	for i, n := 0, b.Len(); i < n; i++ {
		if v := b.At(i); int64(v) >= int64(vertexCount) {
			return fmt.Errorf("index %d is %d, vertex count %d", i, v, vertexCount)
		}
	}
	return nil
}

// DecodeBytes reinterprets a raw byte array as 2- or 4-byte indices. When reverse
// is set each group is stored big-endian. A trailing partial group is ignored.
func DecodeBytes(data []byte, wide, reverse bool) Buffer {
	var order binary.ByteOrder = binary.LittleEndian
	if reverse {
		order = binary.BigEndian
	}
	if wide {
		idx := make([]uint32, len(data)/4)
		for i := range idx {
			idx[i] = order.Uint32(data[i*4:])
		}
		return New32(idx)
	}
	idx := make([]uint16, len(data)/2)
	for i := range idx {
		idx[i] = order.Uint16(data[i*2:])
	}
	return New16(idx)
}

// ReadMultisize reads an index container tagged with its element size byte.
func ReadMultisize(r *archive.Reader) (Buffer, error) {
	if r.Active(version.GateIndexCPUAccessFlag, version.StripFlags{}) {
		r.Bool()
	}
	at := r.Tell()
	size := r.U8()
	if err := r.Err(); err != nil {
		return Buffer{}, fmt.Errorf("indexbuf: read element size: %w", err)
	}
	var b Buffer
	switch size {
	case 2:
		b = New16(archive.BulkArray(r, (*archive.Reader).U16))
	case 4:
		b = New32(archive.BulkArray(r, (*archive.Reader).U32))
	default:
		return Buffer{}, fmt.Errorf("indexbuf: element size %d at offset %d: %w", size, at, ErrElementSize)
	}
	if err := r.Err(); err != nil {
		return Buffer{}, fmt.Errorf("indexbuf: read indices: %w", err)
	}
	return b, nil
}

// ReadRaw reads a raw index buffer: a 16-bit bulk array in old packages, a width
// flag plus a byte array in newer ones.
func ReadRaw(r *archive.Reader) (Buffer, error) {
	if !r.Active(version.GateRawIndex32, version.StripFlags{}) {
		b := New16(archive.BulkArray(r, (*archive.Reader).U16))
		if err := r.Err(); err != nil {
			return Buffer{}, fmt.Errorf("indexbuf: read raw indices: %w", err)
		}
		return b, nil
	}
	wide := r.Bool()
	data := archive.BulkBytes(r)
	if err := r.Err(); err != nil {
		return Buffer{}, fmt.Errorf("indexbuf: read raw index bytes: %w", err)
	}
	if len(data) == 0 {
		return Buffer{}, nil
	}
	return DecodeBytes(data, wide, r.ReverseBytes()), nil
}

// SkipRaw reads and discards a raw index buffer.
func SkipRaw(r *archive.Reader) error {
	_, err := ReadRaw(r)
	return err
}
