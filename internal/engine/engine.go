// Package engine reads small engine structs shared by the skeletal and static
// mesh decoders.
package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/mesh"
)

// BoxSphereBounds is the serialized bounding volume of a mesh.
type BoxSphereBounds struct {
	Origin mgl32.Vec3
	Extent mgl32.Vec3
	Radius float32
}

func ReadBoxSphereBounds(r *archive.Reader) BoxSphereBounds {
	return BoxSphereBounds{Origin: r.Vec3(), Extent: r.Vec3(), Radius: r.F32()}
}

// Canonical converts to canonical bounds; the stored radius is halved.
func (b BoxSphereBounds) Canonical() mesh.Bounds {
	return mesh.FromBoxSphere(b.Origin, b.Extent, b.Radius)
}

// Box is an axis-aligned box.
type Box struct {
	Min, Max mgl32.Vec3
	Valid    bool
}

func ReadBox(r *archive.Reader) Box {
	return Box{Min: r.Vec3(), Max: r.Vec3(), Valid: r.U8() != 0}
}

func ReadIntVector(r *archive.Reader) [3]int32 {
	return [3]int32{r.I32(), r.I32(), r.I32()}
}

// ReadRotator reads pitch, yaw and roll in degrees.
func ReadRotator(r *archive.Reader) mgl32.Vec3 {
	return r.Vec3()
}

// Transform is a bone pose.
type Transform struct {
	Rotation    mgl32.Quat
	Translation mgl32.Vec3
	Scale       mgl32.Vec3
}

func ReadTransform(r *archive.Reader) Transform {
	return Transform{Rotation: r.Quat(), Translation: r.Vec3(), Scale: r.Vec3()}
}

// HasScale reports whether the scale differs from one by more than a small tolerance.
func (t Transform) HasScale() bool {
	d := float32(0)
	for _, s := range t.Scale {
		d += mgl32.Abs(s - 1)
	}
	return d > 0.001
}

// UVChannelInfo is the texture streaming density data of a material slot.
type UVChannelInfo struct {
	Initialized       bool
	OverrideDensities bool
	Densities         [4]float32
}

func ReadUVChannelInfo(r *archive.Reader) UVChannelInfo {
	var u UVChannelInfo
	u.Initialized = r.Bool()
	u.OverrideDensities = r.Bool()
	for i := range u.Densities {
		u.Densities[i] = r.F32()
	}
	return u
}

// clothMappingSize is the serialized size of one cloth physics-to-render vertex.
const clothMappingSize = 64

// SkipClothMapping reads and discards the cloth mapping block of a section or
// chunk and reports whether it carried any mapping data.
func SkipClothMapping(r *archive.Reader) bool {
	n := archive.SkipArray(r, clothMappingSize)
	archive.SkipArray(r, 12) // physical mesh vertices
	archive.SkipArray(r, 12) // physical mesh normals
	r.I16()                  // cloth asset index
	r.I16()                  // cloth asset submesh index
	return n > 0
}
