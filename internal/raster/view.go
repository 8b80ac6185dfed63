package raster

import (
	"github.com/go-gl/mathgl/mgl32"
)

// engineToView maps engine axes (X forward, Y right, Z up) to view axes
// (x right, y up, z toward the viewer) for a camera looking down +X.
var engineToView = mgl32.Mat3FromRows(
	mgl32.Vec3{0, 1, 0},
	mgl32.Vec3{0, 0, 1},
	mgl32.Vec3{-1, 0, 0},
)

// ViewMatrix turns the model by yaw around the up axis, then tilts it toward
// the camera by pitch. Angles are in degrees.
func ViewMatrix(yaw, pitch float32) mgl32.Mat3 {
	return mgl32.Rotate3DX(mgl32.DegToRad(pitch)).
		Mul3(engineToView).
		Mul3(mgl32.Rotate3DZ(mgl32.DegToRad(yaw)))
}
