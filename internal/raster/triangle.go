package raster

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// screenVertex is a projected vertex: pixel position, view depth and the
// view-space normal.
type screenVertex struct {
	X, Y, Z float64
	Normal  mgl32.Vec3
	U, V    float64
	Color   [4]uint8
}

// surface is what a triangle is drawn with.
type surface struct {
	tex     *image.NRGBA // nil draws base
	base    [4]uint8
	colored bool // modulate by interpolated vertex colors
}

// rasterizeTriangle draws one triangle with a z-buffer, per-pixel normal
// interpolation, sRGB-correct lighting and ACES tone mapping. The inner loop
// does not allocate.
func rasterizeTriangle(fb *FrameBuffer, v *[3]screenVertex, s *surface, lc *LightConfig) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, fb.Width-1)
	maxY = min(maxY, fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math.Abs(det) < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*v[0].Z + w1*v[1].Z + w2*v[2].Z
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			c := s.base
			if s.tex != nil {
				c = SampleTexture(s.tex, w0*v[0].U+w1*v[1].U+w2*v[2].U, w0*v[0].V+w1*v[1].V+w2*v[2].V)
			}
			if s.colored {
				for k := range c {
					vc := w0*float64(v[0].Color[k]) + w1*float64(v[1].Color[k]) + w2*float64(v[2].Color[k])
					c[k] = clamp255(float64(c[k]) * vc / 255)
				}
			}
			// Skip transparent texels
			if c[3] < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			n := v[0].Normal.Mul(float32(w0)).Add(v[1].Normal.Mul(float32(w1))).Add(v[2].Normal.Mul(float32(w2)))
			if l := n.Len(); l > 1e-6 {
				n = n.Mul(1 / l)
			}
			shade := lc.Shade(n)

			px := zIdx * 4
			fb.Color[px] = lc.tone(c[0], shade)
			fb.Color[px+1] = lc.tone(c[1], shade)
			fb.Color[px+2] = lc.tone(c[2], shade)
			fb.Color[px+3] = c[3]
		}
	}
}
