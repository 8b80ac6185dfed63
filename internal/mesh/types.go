// Package mesh defines the canonical, engine-agnostic mesh produced by the
// skeletal and static mesh decoders.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/indexbuf"
)

const (
	// MaxUVSets is the number of UV channels a canonical vertex carries.
	MaxUVSets = 8
	// MaxInfluences is the number of bone influences a canonical vertex carries.
	MaxInfluences = 4
	// NoBone marks an unused influence slot.
	NoBone int16 = -1
	// FullWeight is the quantized weight sum of a fully skinned vertex.
	FullWeight = 255
)

// Kind distinguishes skeletal from static meshes.
type Kind string

const (
	Skeletal Kind = "skeletal"
	Static   Kind = "static"
)

// Vertex is one canonical vertex. Slots after the first NoBone are unused.
type Vertex struct {
	Position     mgl32.Vec3
	Normal       mgl32.Vec3
	Tangent      mgl32.Vec3
	BinormalSign float32
	UV           [MaxUVSets]mgl32.Vec2
	Bones        [MaxInfluences]int16
	Weights      [MaxInfluences]uint8
}

// ClearInfluences marks every influence slot unused.
func (v *Vertex) ClearInfluences() {
	for i := range v.Bones {
		v.Bones[i] = NoBone
		v.Weights[i] = 0
	}
}

// Binormal reconstructs the bitangent from normal, tangent and handedness.
func (v *Vertex) Binormal() mgl32.Vec3 {
	return v.Normal.Cross(v.Tangent).Mul(v.BinormalSign)
}

// WeightSum is the sum of the active influence weights.
func (v *Vertex) WeightSum() int {
	sum := 0
	for i, b := range v.Bones {
		if b == NoBone {
			break
		}
		sum += int(v.Weights[i])
	}
	return sum
}

// Section is a run of triangles drawn with one material.
type Section struct {
	MaterialIndex int
	FirstIndex    int
	NumFaces      int
}

// Lod is one level of detail.
type Lod struct {
	NumTexCoords int
	HasNormals   bool
	HasTangents  bool
	Verts        []Vertex
	Sections     []Section
	Indices      indexbuf.Buffer
	// Colors is nil when the LOD carries no vertex colors; otherwise it has one
	// RGBA entry per vertex.
	Colors [][4]uint8
}

// Bone is one reference skeleton bone. Orientation of non-root bones is stored
// conjugated.
type Bone struct {
	Name        string
	ParentIndex int
	Position    mgl32.Vec3
	Orientation mgl32.Quat
	HasScale    bool
}

// Material is a material slot; Ref is the package object index of the material.
type Material struct {
	SlotName string
	Ref      int32
}

// Bounds holds the bounding sphere and box of a mesh.
type Bounds struct {
	Center mgl32.Vec3
	Radius float32
	Min    mgl32.Vec3
	Max    mgl32.Vec3
}

// FromBoxSphere converts serialized box-sphere bounds. The stored radius is twice
// the canonical one.
func FromBoxSphere(origin, extent mgl32.Vec3, radius float32) Bounds {
	return Bounds{
		Center: origin,
		Radius: radius / 2,
		Min:    origin.Sub(extent),
		Max:    origin.Add(extent),
	}
}

// FromPoints computes box bounds of points with the sphere around the box center.
func FromPoints(points []mgl32.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < lo[k] {
				lo[k] = p[k]
			}
			if p[k] > hi[k] {
				hi[k] = p[k]
			}
		}
	}
	c := lo.Add(hi).Mul(0.5)
	return Bounds{Center: c, Radius: hi.Sub(c).Len(), Min: lo, Max: hi}
}

// Mesh is the canonical mesh. Origin and RotOrigin are always zero and Scale is
// always one for this format family.
type Mesh struct {
	Name      string
	Kind      Kind
	Bounds    Bounds
	Origin    mgl32.Vec3
	RotOrigin mgl32.Vec3
	Scale     mgl32.Vec3
	Lods      []Lod
	Bones     []Bone
	Materials []Material
	Warnings  []Warning
}

// New returns an empty mesh with the neutral transform set.
func New(name string, kind Kind) *Mesh {
	return &Mesh{Name: name, Kind: kind, Scale: mgl32.Vec3{1, 1, 1}}
}
