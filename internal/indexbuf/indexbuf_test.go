package indexbuf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/archive/archivetest"
	"uemesh-converter/internal/version"
)

var current = version.Context{FormatVersion: version.Release4_14}

func TestDecodeBytes(t *testing.T) {
	le := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0}

	t.Run("32-bit little-endian", func(t *testing.T) {
		b := DecodeBytes(le, true, false)
		assert.True(t, b.IsWide())
		assert.Equal(t, []uint32{1, 2, 3, 4}, b.Uint32s())
	})

	t.Run("32-bit reversed", func(t *testing.T) {
		b := DecodeBytes(le, true, true)
		assert.Equal(t, []uint32{1 << 24, 2 << 24, 3 << 24, 4 << 24}, b.Uint32s())
	})

	t.Run("16-bit", func(t *testing.T) {
		b := DecodeBytes([]byte{5, 0, 0, 1, 9}, false, false)
		assert.False(t, b.IsWide())
		assert.Equal(t, 2, b.Len())
		assert.Equal(t, uint32(5), b.At(0))
		assert.Equal(t, uint32(256), b.At(1))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0, DecodeBytes(nil, true, false).Len())
	})
}

func TestDecodeBytesDoesNotAlias(t *testing.T) {
	data := []byte{7, 0, 0, 0}
	b := DecodeBytes(data, true, false)
	data[0] = 9
	assert.Equal(t, uint32(7), b.At(0))
}

func TestReadRaw(t *testing.T) {
	t.Run("byte array", func(t *testing.T) {
		w := archivetest.NewWriter().Bool(true).Bulk(1, 8).Raw([]byte{1, 0, 0, 0, 2, 0, 0, 0})
		b, err := ReadRaw(archive.NewReader(w.Bytes(), current))
		require.NoError(t, err)
		assert.Equal(t, []uint32{1, 2}, b.Uint32s())
	})

	t.Run("big-endian package", func(t *testing.T) {
		w := archivetest.NewBigEndianWriter().Bool(true).Bulk(1, 4).Raw([]byte{0, 0, 0, 3})
		r := archive.NewReader(w.Bytes(), current)
		r.SetReverseBytes(true)
		b, err := ReadRaw(r)
		require.NoError(t, err)
		assert.Equal(t, []uint32{3}, b.Uint32s())
	})

	t.Run("empty", func(t *testing.T) {
		w := archivetest.NewWriter().Bool(false).Bulk(1, 0)
		b, err := ReadRaw(archive.NewReader(w.Bytes(), current))
		require.NoError(t, err)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("legacy 16-bit", func(t *testing.T) {
		old := version.Context{FormatVersion: version.Support32BitStaticMeshIndices - 1}
		w := archivetest.NewWriter().Bulk(2, 3).U16(0).U16(1).U16(2)
		b, err := ReadRaw(archive.NewReader(w.Bytes(), old))
		require.NoError(t, err)
		assert.False(t, b.IsWide())
		assert.Equal(t, []uint32{0, 1, 2}, b.Uint32s())
	})
}

func TestReadMultisize(t *testing.T) {
	t.Run("16-bit", func(t *testing.T) {
		w := archivetest.NewWriter().U8(2).Bulk(2, 3).U16(0).U16(1).U16(2)
		b, err := ReadMultisize(archive.NewReader(w.Bytes(), current))
		require.NoError(t, err)
		assert.Equal(t, 3, b.Len())
		assert.False(t, b.IsWide())
	})

	t.Run("32-bit with cpu access flag", func(t *testing.T) {
		old := version.Context{FormatVersion: version.KeepSkelMeshIndexData - 1}
		w := archivetest.NewWriter().Bool(true).U8(4).Bulk(4, 1).U32(70000)
		b, err := ReadMultisize(archive.NewReader(w.Bytes(), old))
		require.NoError(t, err)
		assert.True(t, b.IsWide())
		assert.Equal(t, uint32(70000), b.At(0))
	})

	t.Run("unknown size", func(t *testing.T) {
		w := archivetest.NewWriter().U8(3)
		_, err := ReadMultisize(archive.NewReader(w.Bytes(), current))
		assert.True(t, errors.Is(err, ErrElementSize))
	})
}

func TestValidate(t *testing.T) {
	b := New16([]uint16{0, 1, 2})
	assert.NoError(t, b.Validate(3))
	assert.Error(t, b.Validate(2))
	assert.Equal(t, []uint32{0, 1, 2, 3}, Sequential(4).Uint32s())
}
