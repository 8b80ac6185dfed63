package staticmesh

import (
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/vertex"
)

// assembleLod builds a canonical LOD from the compiled vertex streams.
func assembleLod(m LodModel, lod int, rep *mesh.Reporter) (mesh.Lod, error) {
	f := m.Vertices.Format
	out := mesh.Lod{NumTexCoords: f.NumTexCoords, HasNormals: true, HasTangents: true}
	if !m.HasGeometry {
		return out, nil
	}
	if err := f.Validate(); err != nil {
		return out, mesh.LodError(lod, err)
	}

	total := len(m.Positions.Verts)
	if len(m.Vertices.Verts) != total {
		return out, mesh.Malformed(lod, "%d positions, %d tangent records", total, len(m.Vertices.Verts))
	}
	out.Verts = make([]mesh.Vertex, total)
	for i, src := range m.Vertices.Verts {
		dst := &out.Verts[i]
		dst.Position = m.Positions.Verts[i]
		dst.ClearInfluences()
		copy(dst.UV[:f.NumTexCoords], src.UV[:f.NumTexCoords])
		vertex.UnpackBasis(src.TangentX, src.TangentZ).Apply(dst)
	}

	if m.Indices.Len() == 0 {
		return out, mesh.Malformed(lod, "no index buffer")
	}
	if err := m.Indices.Validate(total); err != nil {
		return out, mesh.Malformed(lod, "%v", err)
	}
	out.Indices = m.Indices

	out.Sections = make([]mesh.Section, len(m.Sections))
	for i, s := range m.Sections {
		out.Sections[i] = mesh.Section{MaterialIndex: s.MaterialIndex, FirstIndex: s.FirstIndex, NumFaces: s.NumTriangles}
	}

	switch len(m.Colors.Colors) {
	case 0:
	case total:
		out.Colors = m.Colors.Colors
	default:
		rep.Warn(mesh.WarnMissingData, lod, "color buffer has %d entries for %d vertices", len(m.Colors.Colors), total)
	}
	return out, nil
}
