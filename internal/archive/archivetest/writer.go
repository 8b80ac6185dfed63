// Package archivetest builds serialized fixtures for decoder tests.
package archivetest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Writer appends little-endian values in the archive layout.
type Writer struct {
	buf   bytes.Buffer
	order binary.ByteOrder
}

func NewWriter() *Writer {
	return &Writer{order: binary.LittleEndian}
}

// NewBigEndianWriter writes multi-byte values big-endian.
func NewBigEndianWriter() *Writer {
	return &Writer{order: binary.BigEndian}
}

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }
func (w *Writer) Len() int { return w.buf.Len() }

func (w *Writer) Raw(b []byte) *Writer {
	w.buf.Write(b)
	return w
}

func (w *Writer) U8(v uint8) *Writer {
	w.buf.WriteByte(v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) I16(v int16) *Writer { return w.U16(uint16(v)) }

func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) I32(v int32) *Writer { return w.U32(uint32(v)) }

func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

func (w *Writer) I64(v int64) *Writer { return w.U64(uint64(v)) }

func (w *Writer) F32(v float32) *Writer { return w.U32(math.Float32bits(v)) }

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U32(1)
	}
	return w.U32(0)
}

func (w *Writer) Vec2(x, y float32) *Writer { return w.F32(x).F32(y) }

func (w *Writer) Vec3(v mgl32.Vec3) *Writer { return w.F32(v[0]).F32(v[1]).F32(v[2]) }

func (w *Writer) Vec4(v mgl32.Vec4) *Writer { return w.F32(v[0]).F32(v[1]).F32(v[2]).F32(v[3]) }

// Quat writes X, Y, Z, W.
func (w *Writer) Quat(q mgl32.Quat) *Writer {
	return w.F32(q.V[0]).F32(q.V[1]).F32(q.V[2]).F32(q.W)
}

// Color writes an R, G, B, A color in B, G, R, A byte order.
func (w *Writer) Color(r, g, b, a uint8) *Writer {
	return w.U8(b).U8(g).U8(r).U8(a)
}

func (w *Writer) Guid() *Writer { return w.Raw(make([]byte, 16)) }

// Name writes a name reference.
func (w *Writer) Name(index, number int32) *Writer { return w.I32(index).I32(number) }

// String writes a Latin-1 string with its terminating NUL.
func (w *Writer) String(s string) *Writer {
	if s == "" {
		return w.I32(0)
	}
	w.I32(int32(len(s) + 1))
	w.buf.WriteString(s)
	return w.U8(0)
}

func (w *Writer) Strip(global, class uint8) *Writer { return w.U8(global).U8(class) }

// Count writes an array length.
func (w *Writer) Count(n int) *Writer { return w.I32(int32(n)) }

// Bulk writes a bulk array header.
func (w *Writer) Bulk(elemSize, n int) *Writer { return w.I32(int32(elemSize)).I32(int32(n)) }

// BulkData writes an inline, uncompressed bulk data record with 64-bit offset.
func (w *Writer) BulkData(payload []byte) *Writer {
	w.U32(0).I32(int32(len(payload))).I32(int32(len(payload))).I64(0)
	return w.Raw(payload)
}

// EmptyBulkData writes an unused bulk data record.
func (w *Writer) EmptyBulkData() *Writer {
	return w.U32(0x20).I32(0).I32(0).I64(0)
}
