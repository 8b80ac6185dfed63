package skeletal

import (
	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/engine"
	"uemesh-converter/internal/sections"
	"uemesh-converter/internal/version"
	"uemesh-converter/internal/vertex"
)

// unknownVertexCount marks unified sections from packages that did not store
// their vertex count.
const unknownVertexCount = -1

func readBoneMap(r *archive.Reader) []uint16 {
	return archive.Array(r, 2, (*archive.Reader).U16)
}

// dropEditorVertices reads editor-only rigid and soft vertices, which the
// canonical mesh does not use.
func dropEditorVertices(r *archive.Reader, rigid bool) {
	if rigid {
		archive.Array(r, vertex.RigidVertexSize, vertex.ReadRigidVertex)
	}
	archive.Array(r, vertex.SoftVertexMinSize, vertex.ReadSoftVertex)
}

func readSection(r *archive.Reader) sections.Section {
	strip := r.StripFlags()
	none := version.StripFlags{}

	s := sections.Section{ChunkIndex: -1, CastShadow: true}
	s.MaterialIndex = int(r.I16())
	if r.Active(version.GateSectionChunkIndex, none) {
		s.ChunkIndex = int(r.I16())
	}
	if r.Active(version.GateSectionIndexRange, strip) {
		s.FirstIndex = int(r.I32())
		s.NumTriangles = int(r.I32())
	}
	r.U8() // triangle sorting
	if r.Active(version.GateSectionCloth, none) {
		s.Disabled = r.Bool()
		r.I16() // cloth section index
	}
	if r.Active(version.GateSectionClothLOD, none) {
		r.U8()
	}
	if r.Active(version.GateSectionRecomputeTangent, none) {
		s.RecomputeTangent = r.Bool()
	}
	if r.Active(version.GateSectionCastShadow, none) {
		s.CastShadow = r.Bool()
	}
	if !r.Active(version.GateSectionChunkData, none) {
		return s
	}

	if r.Active(version.GateSectionBaseVertex, strip) {
		s.BaseVertex = int(r.U32())
	}
	if r.Active(version.GateSectionSoftVertices, strip) {
		dropEditorVertices(r, r.Active(version.GateSectionRigidVertices, strip))
	}
	s.BoneMap = readBoneMap(r)
	s.NumVertices = unknownVertexCount
	if r.Active(version.GateSectionNumVertices, none) {
		s.NumVertices = int(r.I32())
	}
	if r.Active(version.GateSectionRigidSoftCounts, none) {
		rigid, soft := r.I32(), r.I32()
		s.NumVertices = int(rigid + soft)
	}
	s.MaxBoneInfluences = int(r.I32())
	s.HasCloth = engine.SkipClothMapping(r)
	return s
}

func readChunk(r *archive.Reader) sections.Chunk {
	strip := r.StripFlags()
	none := version.StripFlags{}

	var c sections.Chunk
	if r.Active(version.GateChunkBaseVertex, strip) {
		c.BaseVertex = int(r.I32())
	}
	if r.Active(version.GateChunkVertices, strip) {
		dropEditorVertices(r, true)
	}
	c.BoneMap = readBoneMap(r)
	c.NumRigid = int(r.I32())
	c.NumSoft = int(r.I32())
	c.MaxBoneInfluences = int(r.I32())
	if r.Active(version.GateChunkCloth, none) {
		c.HasCloth = engine.SkipClothMapping(r)
	}
	return c
}
