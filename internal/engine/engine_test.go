package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/archive/archivetest"
	"uemesh-converter/internal/version"
)

var current = version.Context{FormatVersion: version.Release4_14}

func TestBoxSphereBoundsCanonical(t *testing.T) {
	w := archivetest.NewWriter().Vec3(mgl32.Vec3{1, 2, 3}).Vec3(mgl32.Vec3{4, 5, 6}).F32(20)
	r := archive.NewReader(w.Bytes(), current)
	b := ReadBoxSphereBounds(r).Canonical()
	require.NoError(t, r.Err())

	assert.Equal(t, float32(10), b.Radius)
	assert.Equal(t, mgl32.Vec3{-3, -3, -3}, b.Min)
	assert.Equal(t, mgl32.Vec3{5, 7, 9}, b.Max)
}

func TestTransformHasScale(t *testing.T) {
	assert.False(t, Transform{Scale: mgl32.Vec3{1, 1, 1.0001}}.HasScale())
	assert.True(t, Transform{Scale: mgl32.Vec3{2, 1, 1}}.HasScale())
}

func TestSkipClothMapping(t *testing.T) {
	w := archivetest.NewWriter().
		Count(1).Raw(make([]byte, clothMappingSize)).
		Count(2).Raw(make([]byte, 24)).
		Count(0).
		I16(1).I16(2).
		U8(0xaa)
	r := archive.NewReader(w.Bytes(), current)
	assert.True(t, SkipClothMapping(r))
	assert.Equal(t, uint8(0xaa), r.U8())
	require.NoError(t, r.Err())
}
