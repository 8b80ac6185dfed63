package vertex

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

// BufferFormat holds the decode flags of one vertex buffer. It is built once per
// buffer and passed by value to every record reader.
type BufferFormat struct {
	NumTexCoords  int
	UVs           UVPrecision
	Tangents      TangentPrecision
	NumInfluences int
}

// Validate rejects formats the canonical vertex cannot represent.
func (f BufferFormat) Validate() error {
	if f.NumTexCoords < 0 || f.NumTexCoords > mesh.MaxUVSets {
		return fmt.Errorf("%w: %d UV sets, at most %d supported", mesh.ErrTooManyUVSets, f.NumTexCoords, mesh.MaxUVSets)
	}
	if f.NumInfluences != 0 && f.NumInfluences != CompactInfluences && f.NumInfluences != ExtendedInfluences {
		return fmt.Errorf("%w: %d influences per vertex", mesh.ErrTooManyInfluences, f.NumInfluences)
	}
	return nil
}

// SkinVertexSize is the serialized size of one GPU skin vertex in this format.
func (f BufferFormat) SkinVertexSize() int {
	return 8 + 2*f.NumInfluences + 12 + f.NumTexCoords*f.UVs.size()
}

// SkinVertex is one GPU skin vertex: tangent frame, influences, position, UVs.
type SkinVertex struct {
	TangentX   PackedNormal
	TangentZ   PackedNormal
	Influences Influences
	Position   mgl32.Vec3
	UV         [mesh.MaxUVSets]mgl32.Vec2
}

// ReadSkinVertex reads one GPU skin vertex.
func ReadSkinVertex(r *archive.Reader, f BufferFormat) SkinVertex {
	var v SkinVertex
	v.TangentX = ReadPackedNormal(r)
	v.TangentZ = ReadPackedNormal(r)
	v.Influences = ReadInfluences(r, f.NumInfluences)
	v.Position = r.Vec3()
	for i := 0; i < f.NumTexCoords; i++ {
		v.UV[i] = ReadUV(r, f.UVs)
	}
	return v
}

// StaticVertex is one static mesh tangent/UV record. Positions live in a separate stream.
type StaticVertex struct {
	TangentX PackedNormal
	TangentZ PackedNormal
	UV       [mesh.MaxUVSets]mgl32.Vec2
}

// ReadStaticVertex reads one static tangent/UV record.
func ReadStaticVertex(r *archive.Reader, f BufferFormat) StaticVertex {
	var v StaticVertex
	v.TangentX, v.TangentZ = ReadTangents(r, f.Tangents)
	for i := 0; i < f.NumTexCoords; i++ {
		v.UV[i] = ReadUV(r, f.UVs)
	}
	return v
}

// EditorUVSets is the fixed UV count of editor-only rigid and soft vertices.
const EditorUVSets = 4

// Serialized sizes of editor vertices; soft vertices grow by 8 bytes with eight influences.
const (
	RigidVertexSize   = 61
	SoftVertexMinSize = 68
)

// EditorVertex is an editor-only chunk vertex. Decoders read these to stay
// aligned and then drop them.
type EditorVertex struct {
	Position   mgl32.Vec3
	Normals    [3]PackedNormal
	UV         [EditorUVSets]mgl32.Vec2
	Color      [4]uint8
	Influences Influences
}

func readEditorCommon(r *archive.Reader) EditorVertex {
	var v EditorVertex
	v.Position = r.Vec3()
	for i := range v.Normals {
		v.Normals[i] = ReadPackedNormal(r)
	}
	for i := range v.UV {
		v.UV[i] = r.Vec2()
	}
	v.Color = r.Color()
	return v
}

// ReadRigidVertex reads a single-bone editor vertex.
func ReadRigidVertex(r *archive.Reader) EditorVertex {
	v := readEditorCommon(r)
	v.Influences.Bones[0] = r.U8()
	v.Influences.Weights[0] = mesh.FullWeight
	return v
}

// ReadSoftVertex reads a skinned editor vertex. Packages that support eight
// influences store eight bone bytes and eight weight bytes; only the first four
// of each are kept.
func ReadSoftVertex(r *archive.Reader) EditorVertex {
	v := readEditorCommon(r)
	extended := r.Active(version.GateSoftVertex8Influences, version.StripFlags{})
	for i := 0; i < CompactInfluences; i++ {
		v.Influences.Bones[i] = r.U8()
	}
	if extended {
		r.Skip(ExtendedInfluences - CompactInfluences)
	}
	for i := 0; i < CompactInfluences; i++ {
		v.Influences.Weights[i] = r.U8()
	}
	if extended {
		r.Skip(ExtendedInfluences - CompactInfluences)
	}
	return v
}
