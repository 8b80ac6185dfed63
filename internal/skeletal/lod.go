package skeletal

import (
	"fmt"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/indexbuf"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/sections"
	"uemesh-converter/internal/version"
)

// LodModel is one decoded skeletal LOD before assembly.
type LodModel struct {
	Grouping          sections.Grouping
	Indices           indexbuf.Buffer
	ActiveBoneIndices []int16
	RequiredBones     []int16
	Size              int
	NumVertices       int
	NumTexCoords      int
	HasGeometry       bool
	Skin              SkinBuffer
	Colors            [][4]uint8
	HasColorBuffer    bool
}

func readLod(r *archive.Reader, lod int, props Properties, rep *mesh.Reporter) (LodModel, error) {
	var m LodModel
	none := version.StripFlags{}
	strip := r.StripFlags()

	secs := archive.Array(r, 4, readSection)
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("skeletal: read sections: %w", err)
	}
	idx, err := indexbuf.ReadMultisize(r)
	if err != nil {
		return m, err
	}
	m.Indices = idx
	m.ActiveBoneIndices = archive.Array(r, 2, (*archive.Reader).I16)

	if r.Active(version.GateLodChunks, none) {
		chunks := archive.Array(r, 14, readChunk)
		m.Grouping = sections.Legacy{Sections: secs, Chunks: chunks}
	} else {
		m.Grouping = sections.Unified{Sections: secs}
	}

	m.Size = int(r.I32())
	if r.Active(version.GateLodNumVertices, strip) {
		m.NumVertices = int(r.I32())
	}
	m.RequiredBones = archive.Array(r, 2, (*archive.Reader).I16)
	if r.Active(version.GateLodRawPointIndices, strip) {
		r.SkipBulkData()
	}
	if r.Active(version.GateLodImportVertexMap, none) {
		archive.SkipArray(r, 4)
		r.I32() // max import vertex
	}
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("skeletal: read lod header: %w", err)
	}

	if !r.Active(version.GateLodGeometry, strip) {
		rep.Warn(mesh.WarnStripped, lod, "geometry stripped")
		return m, nil
	}
	m.HasGeometry = true
	m.NumTexCoords = int(r.I32())
	if err := checkTexCoords(m.NumTexCoords); err != nil {
		return m, err
	}
	if m.Skin, err = readSkinBuffer(r); err != nil {
		return m, fmt.Errorf("skeletal: read skin vertex buffer: %w", err)
	}
	if m.Skin.Format.NumTexCoords != m.NumTexCoords {
		return m, fmt.Errorf("%w: lod declares %d UV sets, vertex buffer has %d",
			mesh.ErrMalformed, m.NumTexCoords, m.Skin.Format.NumTexCoords)
	}
	if props.HasVertexColors {
		m.Colors, m.HasColorBuffer = readColorBuffer(r)
		if !m.HasColorBuffer {
			rep.Warn(mesh.WarnMissingData, lod, "mesh declares vertex colors but the color buffer is stripped")
		}
	}
	if r.Active(version.GateLodLegacyExtraInfluences, none) {
		return m, fmt.Errorf("%w: extra vertex influence buffer", mesh.ErrUnsupported)
	}
	if r.Active(version.GateLodAdjacency, strip) {
		if _, err := indexbuf.ReadMultisize(r); err != nil {
			return m, fmt.Errorf("skeletal: read adjacency indices: %w", err)
		}
	}
	if r.Active(version.GateLodClothBuffer, none) && sections.HasCloth(m.Grouping) {
		n := skipClothBuffer(r)
		rep.Warn(mesh.WarnUnsupported, lod, "dropped cloth vertex buffer with %d entries", n)
	}
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("skeletal: read lod geometry: %w", err)
	}
	return m, nil
}
