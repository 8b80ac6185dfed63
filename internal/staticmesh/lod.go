package staticmesh

import (
	"fmt"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/indexbuf"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

// LodModel is one compiled static LOD before assembly.
type LodModel struct {
	Sections     []Section
	MaxDeviation float32
	HasGeometry  bool
	Positions    PositionBuffer
	Vertices     VertexBuffer
	Colors       ColorBuffer
	Indices      indexbuf.Buffer
}

func readLod(r *archive.Reader, lod int, rep *mesh.Reporter) (LodModel, error) {
	var m LodModel
	none := version.StripFlags{}
	strip := r.StripFlags()

	m.Sections = archive.Array(r, sectionSize, readSection)
	m.MaxDeviation = r.F32()
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("staticmesh: read sections: %w", err)
	}
	if !r.Active(version.GateStaticLodGeometry, strip) {
		rep.Warn(mesh.WarnStripped, lod, "geometry stripped")
		return m, nil
	}
	m.HasGeometry = true

	m.Positions = readPositionBuffer(r)
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("staticmesh: read position buffer: %w", err)
	}
	var err error
	if m.Vertices, err = readVertexBuffer(r); err != nil {
		return m, fmt.Errorf("staticmesh: read vertex buffer: %w", err)
	}
	m.Colors = readColorBuffer(r)
	if m.Indices, err = indexbuf.ReadRaw(r); err != nil {
		return m, err
	}

	// secondary index buffers are not part of the canonical mesh
	reversed := r.Active(version.GateStaticReversedIndices, none)
	if reversed {
		err = skipIndices(r, "reversed")
	}
	if err == nil {
		err = skipIndices(r, "depth-only")
	}
	if err == nil && reversed {
		err = skipIndices(r, "reversed depth-only")
	}
	if err != nil {
		return m, err
	}
	if r.Active(version.GateStaticLegacyDistanceField, none) {
		readDistanceField(r)
	}
	if r.Active(version.GateStaticWireframe, strip) {
		if err := skipIndices(r, "wireframe"); err != nil {
			return m, err
		}
	}
	if r.Active(version.GateStaticAdjacency, strip) {
		if err := skipIndices(r, "adjacency"); err != nil {
			return m, err
		}
	}
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("staticmesh: read lod geometry: %w", err)
	}
	return m, nil
}

func skipIndices(r *archive.Reader, name string) error {
	if err := indexbuf.SkipRaw(r); err != nil {
		return fmt.Errorf("staticmesh: read %s indices: %w", name, err)
	}
	return nil
}
