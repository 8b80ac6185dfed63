package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// LightConfig holds precomputed lighting parameters in view space
// (x right, y up, z toward the viewer).
type LightConfig struct {
	LightDir mgl32.Vec3
	RimDir   mgl32.Vec3
	HalfMain mgl32.Vec3 // half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a key light from the upper right, a rim light
// from behind and a soft hemisphere fill.
func DefaultLightConfig() LightConfig {
	lightDir := mgl32.Vec3{180, 260, 140}.Normalize()
	rimDir := mgl32.Vec3{-160, 130, -210}.Normalize()
	viewDir := mgl32.Vec3{0, 0, 1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Add(viewDir).Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		Direct:   1.50,
		Rim:      0.60,
		SpecInt:  0.45,
		SpecPow:  12.0,
		Exposure: 1.05,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a unit view-space normal.
// Surfaces are lit from both sides.
func (lc *LightConfig) Shade(n mgl32.Vec3) float64 {
	ndlMain := math.Abs(float64(n.Dot(lc.LightDir)))
	ndlRim := math.Abs(float64(n.Dot(lc.RimDir)))

	// Hemisphere fill
	hemi := (1.0-math.Abs(float64(n[1])))*0.5 + 0.5

	ndh := math.Max(float64(n.Dot(lc.HalfMain)), 0)
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// tone lights one sRGB channel: decode to linear, shade, ACES tone map and
// encode back to sRGB.
func (lc *LightConfig) tone(c uint8, shade float64) uint8 {
	lin := srgbToLinear[c] * shade * lc.Exposure
	return clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
}

// Precomputed sRGB-to-linear lookup table (256 entries).
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
