package staticmesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/engine"
	"uemesh-converter/internal/version"
	"uemesh-converter/internal/vertex"
)

// Section is a draw range of a compiled static LOD.
type Section struct {
	MaterialIndex   int
	FirstIndex      int
	NumTriangles    int
	MinVertexIndex  int
	MaxVertexIndex  int
	EnableCollision bool
	CastShadow      bool
}

const sectionSize = 5*4 + 2*4

func readSection(r *archive.Reader) Section {
	var s Section
	s.MaterialIndex = int(r.I32())
	s.FirstIndex = int(r.I32())
	s.NumTriangles = int(r.I32())
	s.MinVertexIndex = int(r.I32())
	s.MaxVertexIndex = int(r.I32())
	s.EnableCollision = r.Bool()
	s.CastShadow = r.Bool()
	return s
}

// PositionBuffer is the position stream of a LOD.
type PositionBuffer struct {
	Stride      int
	NumVertices int
	Verts       []mgl32.Vec3
}

func readPositionBuffer(r *archive.Reader) PositionBuffer {
	var b PositionBuffer
	b.Stride = int(r.I32())
	b.NumVertices = int(r.I32())
	b.Verts = archive.BulkArray(r, (*archive.Reader).Vec3)
	return b
}

// VertexBuffer is the tangent and UV stream of a LOD.
type VertexBuffer struct {
	Format      vertex.BufferFormat
	Stride      int
	NumVertices int
	Verts       []vertex.StaticVertex
}

func readVertexBuffer(r *archive.Reader) (VertexBuffer, error) {
	var b VertexBuffer
	strip := r.StripFlagsIf(version.GateVertexBufferStripFlags)
	b.Format.NumTexCoords = int(r.I32())
	b.Stride = int(r.I32())
	b.NumVertices = int(r.I32())
	b.Format.UVs = vertex.PrecisionFor(r.Bool())
	if r.Active(version.GateStaticHighPrecisionTangents, version.StripFlags{}) && r.Bool() {
		b.Format.Tangents = vertex.TangentHighPrecision
	}
	if err := r.Err(); err != nil {
		return b, err
	}
	if err := b.Format.Validate(); err != nil {
		return b, err
	}
	if strip.IsDataStrippedForServer() {
		return b, nil
	}
	f := b.Format
	b.Verts = archive.BulkArray(r, func(r *archive.Reader) vertex.StaticVertex {
		return vertex.ReadStaticVertex(r, f)
	})
	return b, r.Err()
}

// ColorBuffer is the vertex color stream of a LOD.
type ColorBuffer struct {
	Stride      int
	NumVertices int
	Colors      [][4]uint8
}

func readColorBuffer(r *archive.Reader) ColorBuffer {
	var b ColorBuffer
	strip := r.StripFlagsIf(version.GateVertexBufferStripFlags)
	b.Stride = int(r.I32())
	b.NumVertices = int(r.I32())
	// empty buffers store no array
	if b.NumVertices > 0 && r.Active(version.GateColorBufferData, strip) {
		b.Colors = archive.BulkArray(r, (*archive.Reader).Color)
	}
	return b
}

// DistanceField is a per-LOD distance field volume. Only its header is kept.
type DistanceField struct {
	Samples  int
	Size     [3]int32
	Bounds   engine.Box
	Closed   bool
	TwoSided bool
	Plane    bool
}

func readDistanceField(r *archive.Reader) DistanceField {
	none := version.StripFlags{}
	var d DistanceField
	d.Samples = archive.SkipArray(r, 2)
	d.Size = engine.ReadIntVector(r)
	d.Bounds = engine.ReadBox(r)
	d.Closed = r.Bool()
	if r.Active(version.GateDistanceFieldTwoSided, none) {
		d.TwoSided = r.Bool()
	}
	if r.Active(version.GateDistanceFieldPlane, none) {
		d.Plane = r.Bool()
	}
	return d
}
