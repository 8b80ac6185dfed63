// Package raster draws preview images of canonical meshes with a software
// rasterizer.
package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/texture"
)

var defaultBase = [4]uint8{160, 160, 170, 255}

// Options control a preview render.
type Options struct {
	Size        int
	Supersample int
	Yaw         float32
	Pitch       float32
	// Textures resolves material slot names; nil draws untextured.
	Textures texture.Resolver
}

// DefaultOptions returns a three-quarter view.
func DefaultOptions() Options {
	return Options{Size: 256, Supersample: 2, Yaw: 35, Pitch: 20}
}

// Render draws one LOD of m in its reference pose. The result is
// Size*Supersample pixels square with a transparent background.
func Render(m *mesh.Mesh, lodIndex int, opts Options) (*image.NRGBA, error) {
	if lodIndex < 0 || lodIndex >= len(m.Lods) {
		return nil, fmt.Errorf("raster: lod %d out of range, mesh has %d", lodIndex, len(m.Lods))
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("raster: invalid size %d", opts.Size)
	}
	ss := max(opts.Supersample, 1)
	renderSize := opts.Size * ss
	fb := NewFrameBuffer(renderSize, renderSize)

	lod := &m.Lods[lodIndex]
	if len(lod.Verts) == 0 {
		return fb.Image(), nil
	}

	R := ViewMatrix(opts.Yaw, opts.Pitch)
	view := make([]mgl32.Vec3, len(lod.Verts))
	lo := mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), 0}
	hi := mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), 0}
	for i := range lod.Verts {
		p := R.Mul3x1(lod.Verts[i].Position)
		view[i] = p
		lo[0], lo[1] = min(lo[0], p[0]), min(lo[1], p[1])
		hi[0], hi[1] = max(hi[0], p[0]), max(hi[1], p[1])
	}
	cx := float64(lo[0]+hi[0]) / 2
	cy := float64(lo[1]+hi[1]) / 2
	span := math.Max(float64(max(hi[0]-lo[0], hi[1]-lo[1])), 0.001)

	margin := renderSize / 16
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	screen := make([]screenVertex, len(lod.Verts))
	for i, p := range view {
		v := &lod.Verts[i]
		sv := &screen[i]
		sv.X = half + (float64(p[0])-cx)*scale
		sv.Y = half - (float64(p[1])-cy)*scale
		sv.Z = float64(p[2])
		if lod.HasNormals {
			sv.Normal = R.Mul3x1(v.Normal).Normalize()
		}
		if lod.NumTexCoords > 0 {
			sv.U, sv.V = float64(v.UV[0][0]), float64(v.UV[0][1])
		}
		if lod.Colors != nil {
			sv.Color = lod.Colors[i]
		}
	}

	lc := DefaultLightConfig()
	var tri [3]screenVertex
	for _, r := range drawRanges(lod) {
		s := surfaceFor(m, lod, r.material, opts.Textures)
		for f := r.first; f+2 < r.first+3*r.faces; f += 3 {
			a, b, c := lod.Indices.At(f), lod.Indices.At(f+1), lod.Indices.At(f+2)
			if int(max(a, b, c)) >= len(screen) {
				continue
			}
			tri[0], tri[1], tri[2] = screen[a], screen[b], screen[c]
			if !lod.HasNormals {
				n := view[b].Sub(view[a]).Cross(view[c].Sub(view[a]))
				if n.Len() < 1e-12 {
					continue
				}
				n = n.Normalize()
				tri[0].Normal, tri[1].Normal, tri[2].Normal = n, n, n
			}
			rasterizeTriangle(fb, &tri, &s, &lc)
		}
	}
	return fb.Image(), nil
}

type drawRange struct {
	material int
	first    int
	faces    int
}

// drawRanges clamps the sections to the index buffer; a LOD without sections
// is drawn whole with no material.
func drawRanges(lod *mesh.Lod) []drawRange {
	total := lod.Indices.Len() / 3
	if len(lod.Sections) == 0 {
		return []drawRange{{material: -1, faces: total}}
	}
	out := make([]drawRange, 0, len(lod.Sections))
	for _, s := range lod.Sections {
		faces := min(s.NumFaces, total-s.FirstIndex/3)
		if faces > 0 {
			out = append(out, drawRange{material: s.MaterialIndex, first: s.FirstIndex, faces: faces})
		}
	}
	return out
}

func surfaceFor(m *mesh.Mesh, lod *mesh.Lod, material int, textures texture.Resolver) surface {
	s := surface{base: defaultBase, colored: lod.Colors != nil}
	if textures == nil || material < 0 || material >= len(m.Materials) {
		return s
	}
	tex := textures.Resolve(m.Materials[material].SlotName)
	if tex == nil || tex.Rect.Empty() {
		return s
	}
	// without UVs the texture only tints the surface
	if lod.NumTexCoords == 0 {
		s.base = averageColor(tex)
	} else {
		s.tex = tex
	}
	return s
}

// averageColor is the mean color of the opaque texels of tex.
func averageColor(tex *image.NRGBA) [4]uint8 {
	b := tex.Bounds()
	var sum [3]float64
	n := 0
	for y := 0; y < b.Dy(); y++ {
		off := y * tex.Stride
		for x := 0; x < b.Dx(); x++ {
			i := off + x*4
			if tex.Pix[i+3] == 0 {
				continue
			}
			sum[0] += float64(tex.Pix[i])
			sum[1] += float64(tex.Pix[i+1])
			sum[2] += float64(tex.Pix[i+2])
			n++
		}
	}
	if n == 0 {
		return defaultBase
	}
	f := float64(n)
	return [4]uint8{uint8(sum[0]/f + 0.5), uint8(sum[1]/f + 0.5), uint8(sum[2]/f + 0.5), 255}
}
