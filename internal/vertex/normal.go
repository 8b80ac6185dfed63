// Package vertex decodes packed per-vertex attributes: tangent bases, UVs and
// bone influences.
package vertex

import (
	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/mesh"
)

// PackedNormal is a unit vector quantized to four unsigned bytes; W carries the
// binormal sign on tangent Z.
type PackedNormal struct {
	X, Y, Z, W uint8
}

// ReadPackedNormal reads a packed normal stored as one 32-bit word, X in the low byte.
func ReadPackedNormal(r *archive.Reader) PackedNormal {
	v := r.U32()
	return PackedNormal{X: uint8(v), Y: uint8(v >> 8), Z: uint8(v >> 16), W: uint8(v >> 24)}
}

// ReadPackedRGBA16N reads a high-precision normal (four offset 16-bit components)
// and reduces it to a PackedNormal.
func ReadPackedRGBA16N(r *archive.Reader) PackedNormal {
	x, y, z, w := r.U16(), r.U16(), r.U16(), r.U16()
	return PackedNormal{X: uint8(x >> 8), Y: uint8(y >> 8), Z: uint8(z >> 8), W: uint8(w >> 8)}
}

func unpackByte(b uint8) float32 {
	return float32(b)/127.5 - 1
}

// Vec4 expands the components to [-1, 1].
func (n PackedNormal) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{unpackByte(n.X), unpackByte(n.Y), unpackByte(n.Z), unpackByte(n.W)}
}

func (n PackedNormal) Vec3() mgl32.Vec3 {
	return n.Vec4().Vec3()
}

// Pack quantizes v with W set from sign.
func Pack(v mgl32.Vec3, sign float32) PackedNormal {
	q := func(f float32) uint8 {
		f = mgl32.Clamp(f, -1, 1)
		return uint8(f*127.5 + 127.5 + 0.5)
	}
	w := uint8(255)
	if sign < 0 {
		w = 0
	}
	return PackedNormal{X: q(v[0]), Y: q(v[1]), Z: q(v[2]), W: w}
}

// TangentPrecision selects how a buffer stores its tangent basis.
type TangentPrecision int

const (
	TangentPacked TangentPrecision = iota
	TangentHighPrecision
)

// ReadTangents reads tangent X and tangent Z in the buffer's precision.
func ReadTangents(r *archive.Reader, p TangentPrecision) (x, z PackedNormal) {
	if p == TangentHighPrecision {
		x = ReadPackedRGBA16N(r)
		z = ReadPackedRGBA16N(r)
		return x, z
	}
	x = ReadPackedNormal(r)
	z = ReadPackedNormal(r)
	return x, z
}

// Basis is an orthonormal tangent frame plus bitangent handedness.
type Basis struct {
	Normal  mgl32.Vec3
	Tangent mgl32.Vec3
	Sign    float32
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if l := v.Len(); l > 1e-6 {
		return v.Mul(1 / l)
	}
	return v
}

// UnpackBasis rebuilds the frame from tangent X and tangent Z. The tangent is made
// orthogonal to the normal and the sign is taken from Z's W component.
func UnpackBasis(tangentX, tangentZ PackedNormal) Basis {
	z := tangentZ.Vec4()
	n := normalize(z.Vec3())
	t := tangentX.Vec3()
	t = normalize(t.Sub(n.Mul(n.Dot(t))))
	sign := float32(1)
	if z[3] < 0 {
		sign = -1
	}
	return Basis{Normal: n, Tangent: t, Sign: sign}
}

// BasisFromVectors builds the frame from explicit vectors. The sign is
// sign(dot(binormal, cross(normal, tangent))).
func BasisFromVectors(normal, tangent, binormal mgl32.Vec3) Basis {
	sign := float32(-1)
	if binormal.Dot(normal.Cross(tangent)) > 0 {
		sign = 1
	}
	return Basis{Normal: normalize(normal), Tangent: normalize(tangent), Sign: sign}
}

// Apply stores the frame on v.
func (b Basis) Apply(v *mesh.Vertex) {
	v.Normal = b.Normal
	v.Tangent = b.Tangent
	v.BinormalSign = b.Sign
}
