package raster

import (
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uemesh-converter/internal/indexbuf"
	"uemesh-converter/internal/mesh"
)

type solid map[string]*image.NRGBA

func (s solid) Resolve(name string) *image.NRGBA { return s[name] }

func fill(c [4]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		copy(img.Pix[i:i+4], c[:])
	}
	return img
}

// quad returns a square facing a camera that looks down +X.
func quad(withUVs bool) *mesh.Mesh {
	m := mesh.New("quad", mesh.Static)
	m.Materials = []mesh.Material{{SlotName: "Paint"}}
	pos := []mgl32.Vec3{{0, -1, -1}, {0, 1, -1}, {0, 1, 1}, {0, -1, 1}}
	lod := mesh.Lod{HasNormals: true, Indices: indexbuf.New16([]uint16{0, 1, 2, 0, 2, 3})}
	if withUVs {
		lod.NumTexCoords = 1
	}
	lod.Sections = []mesh.Section{{MaterialIndex: 0, FirstIndex: 0, NumFaces: 2}}
	for _, p := range pos {
		v := mesh.Vertex{Position: p, Normal: mgl32.Vec3{-1, 0, 0}}
		v.ClearInfluences()
		v.UV[0] = mgl32.Vec2{(p[1] + 1) / 2, (1 - p[2]) / 2}
		lod.Verts = append(lod.Verts, v)
	}
	m.Lods = []mesh.Lod{lod}
	return m
}

func front() Options {
	return Options{Size: 32, Supersample: 1}
}

func pixel(img *image.NRGBA, x, y int) [4]uint8 {
	i := img.PixOffset(x, y)
	return [4]uint8(img.Pix[i : i+4])
}

func TestRenderCoversMesh(t *testing.T) {
	img, err := Render(quad(false), 0, front())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	assert.Equal(t, uint8(255), pixel(img, 16, 16)[3])
	assert.Zero(t, pixel(img, 0, 0)[3])
	assert.Zero(t, pixel(img, 31, 31)[3])
}

func TestRenderTexture(t *testing.T) {
	opts := front()
	opts.Textures = solid{"Paint": fill([4]uint8{255, 0, 0, 255})}

	img, err := Render(quad(true), 0, opts)
	require.NoError(t, err)
	c := pixel(img, 16, 16)
	assert.Greater(t, c[0], uint8(100))
	assert.Zero(t, c[1])
	assert.Zero(t, c[2])
}

func TestRenderTintWithoutUVs(t *testing.T) {
	opts := front()
	opts.Textures = solid{"Paint": fill([4]uint8{0, 0, 255, 255})}

	img, err := Render(quad(false), 0, opts)
	require.NoError(t, err)
	c := pixel(img, 16, 16)
	assert.Zero(t, c[0])
	assert.Greater(t, c[2], uint8(100))
}

func TestRenderFlatShading(t *testing.T) {
	m := quad(false)
	m.Lods[0].HasNormals = false

	img, err := Render(m, 0, front())
	require.NoError(t, err)
	assert.Equal(t, pixel(img, 10, 10), pixel(img, 20, 20))
}

func TestRenderSupersample(t *testing.T) {
	opts := front()
	opts.Supersample = 3
	img, err := Render(quad(false), 0, opts)
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
}

func TestRenderRejects(t *testing.T) {
	_, err := Render(quad(false), 1, front())
	assert.Error(t, err)

	_, err = Render(quad(false), 0, Options{})
	assert.Error(t, err)
}

func TestRenderEmptyLod(t *testing.T) {
	m := mesh.New("empty", mesh.Static)
	m.Lods = []mesh.Lod{{}}
	img, err := Render(m, 0, front())
	require.NoError(t, err)
	assert.Zero(t, pixel(img, 16, 16)[3])
}

func TestViewMatrixFront(t *testing.T) {
	R := ViewMatrix(0, 0)
	x := R.Mul3x1(mgl32.Vec3{0, 1, 0})
	y := R.Mul3x1(mgl32.Vec3{0, 0, 1})
	z := R.Mul3x1(mgl32.Vec3{-1, 0, 0})
	assert.InDeltaSlice(t, []float32{1, 0, 0}, x[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, y[:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, z[:], 1e-6)
}

func TestAverageColor(t *testing.T) {
	img := fill([4]uint8{10, 20, 30, 255})
	img.Pix[3] = 0
	img.Pix[0] = 250
	assert.Equal(t, [4]uint8{10, 20, 30, 255}, averageColor(img))
	assert.Equal(t, defaultBase, averageColor(image.NewNRGBA(image.Rect(0, 0, 1, 1))))
}
