package skeletal

import (
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/sections"
	"uemesh-converter/internal/vertex"
)

// groupsFor reconciles the LOD's grouping, filling vertex counts that older
// packages did not store.
func groupsFor(m LodModel, materialMap []int) ([]sections.Group, error) {
	g := m.Grouping
	if u, ok := g.(sections.Unified); ok {
		for _, s := range u.Sections {
			if s.NumVertices == unknownVertexCount {
				g = sections.DeriveVertexCounts(u, len(m.Skin.Verts))
				break
			}
		}
	}
	return sections.Reconcile(g, materialMap)
}

// assembleLod builds one canonical LOD: vertices are resolved group by group
// through each group's bone map.
func assembleLod(m LodModel, lod int, materialMap []int, rep *mesh.Reporter) (mesh.Lod, error) {
	out := mesh.Lod{NumTexCoords: m.NumTexCoords, HasNormals: true, HasTangents: true}
	if !m.HasGeometry {
		return out, nil
	}
	if err := checkTexCoords(m.NumTexCoords); err != nil {
		return out, mesh.LodError(lod, err)
	}

	groups, err := groupsFor(m, materialMap)
	if err != nil {
		return out, mesh.LodError(lod, err)
	}
	total := len(m.Skin.Verts)
	if err := sections.CheckCoverage(groups, total); err != nil {
		return out, mesh.LodError(lod, err)
	}

	out.Verts = make([]mesh.Vertex, total)
	gi := -1
	end := 0
	for i := range m.Skin.Verts {
		for i >= end {
			gi++
			end = groups[gi].End()
		}
		src := &m.Skin.Verts[i]
		dst := &out.Verts[i]
		dst.Position = src.Position
		copy(dst.UV[:m.NumTexCoords], src.UV[:m.NumTexCoords])
		vertex.UnpackBasis(src.TangentX, src.TangentZ).Apply(dst)
		if err := src.Influences.Resolve(groups[gi].BoneMap, dst); err != nil {
			return out, mesh.SectionError(lod, groups[gi].Section, err)
		}
	}

	if err := m.Indices.Validate(total); err != nil {
		return out, mesh.Malformed(lod, "%v", err)
	}
	out.Indices = m.Indices

	draws := sections.Draws(m.Grouping, materialMap)
	out.Sections = make([]mesh.Section, len(draws))
	for i, d := range draws {
		out.Sections[i] = mesh.Section{MaterialIndex: d.MaterialIndex, FirstIndex: d.FirstIndex, NumFaces: d.NumTriangles}
	}

	switch {
	case !m.HasColorBuffer:
	case len(m.Colors) == total:
		out.Colors = m.Colors
	default:
		rep.Warn(mesh.WarnMissingData, lod, "color buffer has %d entries for %d vertices", len(m.Colors), total)
	}
	return out, nil
}
