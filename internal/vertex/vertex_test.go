package vertex

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/archive/archivetest"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

var current = version.Context{FormatVersion: version.Release4_14}

func reader(w *archivetest.Writer) *archive.Reader {
	return archive.NewReader(w.Bytes(), current)
}

func TestPackedNormalRoundTrip(t *testing.T) {
	in := mgl32.Vec3{0, 0.6, 0.8}
	p := Pack(in, -1)
	out := p.Vec3()
	assert.InDelta(t, in[1], out[1], 0.01)
	assert.InDelta(t, in[2], out[2], 0.01)
	assert.Equal(t, uint8(0), p.W)
}

func TestReadPackedRGBA16N(t *testing.T) {
	w := archivetest.NewWriter().U16(0xff00).U16(0x8000).U16(0x0000).U16(0xffff)
	n := ReadPackedRGBA16N(reader(w))
	assert.Equal(t, PackedNormal{X: 0xff, Y: 0x80, Z: 0x00, W: 0xff}, n)
}

func TestUnpackBasis(t *testing.T) {
	x := Pack(mgl32.Vec3{1, 0, 0.1}, 1)
	z := Pack(mgl32.Vec3{0, 0, 1}, -1)
	b := UnpackBasis(x, z)

	assert.InDelta(t, 1, b.Normal.Len(), 1e-4)
	assert.InDelta(t, 1, b.Tangent.Len(), 1e-4)
	assert.InDelta(t, 0, b.Normal.Dot(b.Tangent), 1e-4)
	assert.Equal(t, float32(-1), b.Sign)
}

func TestBasisFromVectorsSign(t *testing.T) {
	normal := mgl32.Vec3{0, 0, 1}
	tangent := mgl32.Vec3{1, 0, 0}
	for _, tc := range []struct {
		name     string
		binormal mgl32.Vec3
	}{
		{"right handed", mgl32.Vec3{0, 1, 0}},
		{"left handed", mgl32.Vec3{0, -1, 0}},
		{"skewed", mgl32.Vec3{0.3, -0.7, 0.2}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ref := tc.binormal.Dot(normal.Cross(tangent))
			want := float32(math.Copysign(1, float64(ref)))
			assert.Equal(t, want, BasisFromVectors(normal, tangent, tc.binormal).Sign)
		})
	}
}

func TestReadUV(t *testing.T) {
	t.Run("float", func(t *testing.T) {
		uv := ReadUV(reader(archivetest.NewWriter().Vec2(0.25, 0.75)), UVFloat)
		assert.Equal(t, mgl32.Vec2{0.25, 0.75}, uv)
	})

	t.Run("half", func(t *testing.T) {
		w := archivetest.NewWriter().
			U16(float16.Fromfloat32(0.5).Bits()).
			U16(float16.Fromfloat32(-2).Bits())
		uv := ReadUV(reader(w), UVHalf)
		assert.Equal(t, mgl32.Vec2{0.5, -2}, uv)
	})
}

func TestRedistribute(t *testing.T) {
	t.Run("upper slots empty", func(t *testing.T) {
		in := Redistribute([8]uint8{1, 2, 3, 4}, [8]uint8{100, 80, 50, 25})
		assert.Equal(t, [4]uint8{100, 80, 50, 25}, in.Weights)
	})

	t.Run("even split with remainder to slot 0", func(t *testing.T) {
		weights := [8]uint8{100, 60, 40, 30, 10, 8, 5, 2}
		in := Redistribute([8]uint8{1, 2, 3, 4, 5, 6, 7, 8}, weights)
		// extra 25 -> 6 per slot, remainder 1 to slot 0
		assert.Equal(t, [4]uint8{107, 66, 46, 36}, in.Weights)
		assert.Equal(t, [4]uint8{1, 2, 3, 4}, in.Bones)
	})

	t.Run("sum preserved", func(t *testing.T) {
		weights := [8]uint8{120, 50, 30, 20, 15, 10, 7, 3}
		total := 0
		for _, w := range weights {
			total += int(w)
		}
		in := Redistribute([8]uint8{}, weights)
		got := 0
		for _, w := range in.Weights {
			got += int(w)
		}
		assert.Equal(t, total, got)
	})

	t.Run("saturates", func(t *testing.T) {
		in := Redistribute([8]uint8{}, [8]uint8{250, 0, 0, 0, 40})
		assert.Equal(t, uint8(255), in.Weights[0])
	})

	t.Run("full weight sorted", func(t *testing.T) {
		in := Redistribute([8]uint8{}, [8]uint8{200, 20, 10, 10, 9, 3, 2, 1})
		assert.Equal(t, [4]uint8{206, 23, 13, 13}, in.Weights)
	})
}

func TestReadInfluences(t *testing.T) {
	t.Run("compact", func(t *testing.T) {
		w := archivetest.NewWriter().Raw([]byte{3, 2, 1, 0, 200, 55, 0, 0})
		in := ReadInfluences(reader(w), 4)
		assert.Equal(t, [4]uint8{3, 2, 1, 0}, in.Bones)
		assert.Equal(t, [4]uint8{200, 55, 0, 0}, in.Weights)
	})

	t.Run("extended", func(t *testing.T) {
		w := archivetest.NewWriter().
			Raw([]byte{0, 1, 2, 3, 4, 5, 6, 7}).
			Raw([]byte{100, 60, 40, 30, 10, 8, 5, 2})
		r := reader(w)
		in := ReadInfluences(r, 8)
		require.NoError(t, r.Err())
		assert.Equal(t, 0, r.Remaining())
		assert.Equal(t, [4]uint8{107, 66, 46, 36}, in.Weights)
	})
}

func TestResolve(t *testing.T) {
	boneMap := []uint16{10, 11, 12, 13}

	t.Run("zero weight does not stop scan", func(t *testing.T) {
		var v mesh.Vertex
		in := Influences{Bones: [4]uint8{0, 1, 2, 3}, Weights: [4]uint8{200, 0, 55, 0}}
		require.NoError(t, in.Resolve(boneMap, &v))
		assert.Equal(t, [4]int16{10, 12, mesh.NoBone, mesh.NoBone}, v.Bones)
		assert.Equal(t, [4]uint8{200, 55, 0, 0}, v.Weights)
		assert.Equal(t, 255, v.WeightSum())
	})

	t.Run("slot outside bone map", func(t *testing.T) {
		var v mesh.Vertex
		in := Influences{Bones: [4]uint8{9}, Weights: [4]uint8{255}}
		err := in.Resolve(boneMap, &v)
		assert.True(t, errors.Is(err, mesh.ErrMalformed))
	})
}

func TestBufferFormatValidate(t *testing.T) {
	assert.NoError(t, BufferFormat{NumTexCoords: 8, NumInfluences: 4}.Validate())
	assert.True(t, errors.Is(BufferFormat{NumTexCoords: 9}.Validate(), mesh.ErrTooManyUVSets))
	assert.True(t, errors.Is(BufferFormat{NumTexCoords: 1, NumInfluences: 6}.Validate(), mesh.ErrTooManyInfluences))
}

func TestReadSkinVertex(t *testing.T) {
	f := BufferFormat{NumTexCoords: 2, UVs: UVFloat, NumInfluences: 4}
	w := archivetest.NewWriter().
		U32(0x7f7f7fff).U32(0xffff7f7f).
		Raw([]byte{0, 1, 0, 0, 128, 127, 0, 0}).
		Vec3(mgl32.Vec3{1, 2, 3}).
		Vec2(0.1, 0.2).Vec2(0.3, 0.4)
	r := reader(w)
	v := ReadSkinVertex(r, f)
	require.NoError(t, r.Err())
	assert.Equal(t, f.SkinVertexSize(), r.Tell())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, v.Position)
	assert.Equal(t, mgl32.Vec2{0.3, 0.4}, v.UV[1])
	assert.Equal(t, uint8(0xff), v.TangentZ.W)
}

func TestReadEditorVertices(t *testing.T) {
	common := func(w *archivetest.Writer) *archivetest.Writer {
		w.Vec3(mgl32.Vec3{1, 1, 1}).U32(0).U32(0).U32(0)
		for i := 0; i < EditorUVSets; i++ {
			w.Vec2(0, 0)
		}
		return w.Color(1, 2, 3, 4)
	}

	t.Run("rigid", func(t *testing.T) {
		r := reader(common(archivetest.NewWriter()).U8(5))
		v := ReadRigidVertex(r)
		require.NoError(t, r.Err())
		assert.Equal(t, RigidVertexSize, r.Tell())
		assert.Equal(t, uint8(5), v.Influences.Bones[0])
	})

	t.Run("soft with eight influences", func(t *testing.T) {
		w := common(archivetest.NewWriter()).
			Raw([]byte{1, 2, 3, 4, 9, 9, 9, 9}).
			Raw([]byte{100, 100, 50, 5, 9, 9, 9, 9})
		r := reader(w)
		v := ReadSoftVertex(r)
		require.NoError(t, r.Err())
		assert.Equal(t, SoftVertexMinSize+8, r.Tell())
		assert.Equal(t, [4]uint8{100, 100, 50, 5}, v.Influences.Weights)
	})

	t.Run("soft with four influences", func(t *testing.T) {
		old := version.Context{FormatVersion: version.Support8BoneInfluencesSkeletalMeshes - 1}
		w := common(archivetest.NewWriter()).Raw([]byte{1, 2, 3, 4, 100, 100, 50, 5})
		r := archive.NewReader(w.Bytes(), old)
		ReadSoftVertex(r)
		require.NoError(t, r.Err())
		assert.Equal(t, SoftVertexMinSize, r.Tell())
	})
}
