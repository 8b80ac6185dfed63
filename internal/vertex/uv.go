package vertex

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/x448/float16"

	"uemesh-converter/internal/archive"
)

// UVPrecision selects how a buffer stores its texture coordinates.
type UVPrecision int

const (
	UVHalf UVPrecision = iota
	UVFloat
)

// PrecisionFor maps a full-precision flag to a UVPrecision.
func PrecisionFor(fullPrecision bool) UVPrecision {
	if fullPrecision {
		return UVFloat
	}
	return UVHalf
}

// ReadUV reads one UV pair, promoting half floats to float32.
func ReadUV(r *archive.Reader, p UVPrecision) mgl32.Vec2 {
	if p == UVFloat {
		return r.Vec2()
	}
	u := float16.Frombits(r.U16())
	v := float16.Frombits(r.U16())
	return mgl32.Vec2{u.Float32(), v.Float32()}
}

func (p UVPrecision) size() int {
	if p == UVFloat {
		return 8
	}
	return 4
}
