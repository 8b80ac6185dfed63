// Package archive implements the sequential cursor the mesh decoders read from:
// fixed-width scalars, engine vectors, names, strings, arrays and bulk data, all
// interpreted against the version context of the owning package.
package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/version"
)

// Reader is a cursor over one export's serialized bytes. The first failed read
// is sticky: later reads return zero values and Err reports the failure.
type Reader struct {
	data    []byte
	off     int
	order   binary.ByteOrder
	reverse bool
	ver     version.Context
	names   []string
	err     error
}

// NewReader creates a little-endian reader over data.
func NewReader(data []byte, ver version.Context) *Reader {
	return &Reader{data: data, order: binary.LittleEndian, ver: ver}
}

// Sub creates a reader over data sharing r's byte order, version context and name table.
func (r *Reader) Sub(data []byte) *Reader {
	return &Reader{data: data, order: r.order, reverse: r.reverse, ver: r.ver, names: r.names}
}

// SetReverseBytes switches the reader to big-endian data.
func (r *Reader) SetReverseBytes(reverse bool) {
	r.reverse = reverse
	if reverse {
		r.order = binary.BigEndian
	} else {
		r.order = binary.LittleEndian
	}
}

// ReverseBytes reports whether multi-byte values are stored big-endian.
func (r *Reader) ReverseBytes() bool { return r.reverse }

// SetNames installs the package name table used by Name.
func (r *Reader) SetNames(names []string) { r.names = names }

// Version returns the package version context.
func (r *Reader) Version() version.Context { return r.ver }

// Active reports whether gate g holds for this package under strip flags s.
func (r *Reader) Active(g version.Gate, s version.StripFlags) bool {
	return r.ver.Active(g, s)
}

func (r *Reader) Tell() int { return r.off }
func (r *Reader) Len() int { return len(r.data) }
func (r *Reader) Remaining() int { return len(r.data) - r.off }
func (r *Reader) Err() error { return r.err }

// Fail records err unless an earlier error is already pending.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(pos int) {
	if pos < 0 || pos > len(r.data) {
		r.Fail(fmt.Errorf("archive: seek to %d outside [0, %d]", pos, len(r.data)))
		return
	}
	r.off = pos
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

// DropRemaining discards everything up to the end of the data and returns the byte count.
func (r *Reader) DropRemaining() int {
	n := r.Remaining()
	r.off = len(r.data)
	return n
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("archive: read %d bytes at offset %d (size %d): %w", n, r.off, len(r.data), io.ErrUnexpectedEOF)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) I16() int16 { return int16(r.U16()) }

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return r.order.Uint16(b)
}

func (r *Reader) I32() int32 { return int32(r.U32()) }

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return r.order.Uint32(b)
}

func (r *Reader) I64() int64 { return int64(r.U64()) }

func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return r.order.Uint64(b)
}

func (r *Reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Bool reads a 32-bit boolean. Values other than 0 and 1 are a decode error.
func (r *Reader) Bool() bool {
	at := r.off
	v := r.U32()
	if v > 1 {
		r.Fail(fmt.Errorf("archive: invalid bool value %d at offset %d", v, at))
	}
	return v != 0
}

func (r *Reader) Vec2() mgl32.Vec2 {
	return mgl32.Vec2{r.F32(), r.F32()}
}

func (r *Reader) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.F32(), r.F32(), r.F32()}
}

func (r *Reader) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{r.F32(), r.F32(), r.F32(), r.F32()}
}

// Quat reads a quaternion stored as X, Y, Z, W.
func (r *Reader) Quat() mgl32.Quat {
	x, y, z, w := r.F32(), r.F32(), r.F32(), r.F32()
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

// Guid reads a 16-byte GUID.
func (r *Reader) Guid() [16]byte {
	var g [16]byte
	copy(g[:], r.take(16))
	return g
}

// Color reads an 8-bit color stored in B, G, R, A byte order and returns it as R, G, B, A.
func (r *Reader) Color() [4]uint8 {
	b := r.take(4)
	if b == nil {
		return [4]uint8{}
	}
	return [4]uint8{b[2], b[1], b[0], b[3]}
}

// ObjectRef reads a package object index. Resolving it is up to the package loader.
func (r *Reader) ObjectRef() int32 {
	return r.I32()
}

// Count reads an array length and checks that count elements of at least minSize
// bytes each can still fit in the remaining data.
func (r *Reader) Count(minSize int) int {
	at := r.off
	n := r.I32()
	if r.err != nil {
		return 0
	}
	if n < 0 {
		r.Fail(fmt.Errorf("archive: negative array count %d at offset %d", n, at))
		return 0
	}
	if minSize > 0 && int64(n)*int64(minSize) > int64(r.Remaining()) {
		r.Fail(fmt.Errorf("archive: array of %d x %d bytes at offset %d exceeds remaining %d: %w",
			n, minSize, at, r.Remaining(), io.ErrUnexpectedEOF))
		return 0
	}
	return int(n)
}
