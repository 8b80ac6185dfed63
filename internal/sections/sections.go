// Package sections reconciles the two skeletal vertex grouping schemes (legacy
// chunks referenced by thin sections, and unified sections) into one ordered
// list of vertex groups.
package sections

import (
	"fmt"
	"sort"

	"uemesh-converter/internal/mesh"
)

// Section is a decoded skeletal section. Legacy sections only carry the material,
// the stored chunk reference and the index range; the vertex fields are zero.
type Section struct {
	MaterialIndex     int
	ChunkIndex        int
	FirstIndex        int
	NumTriangles      int
	BaseVertex        int
	NumVertices       int
	BoneMap           []uint16
	MaxBoneInfluences int
	HasCloth          bool
	Disabled          bool
	CastShadow        bool
	RecomputeTangent  bool
}

// Chunk is a legacy vertex group.
type Chunk struct {
	BaseVertex        int
	NumRigid          int
	NumSoft           int
	BoneMap           []uint16
	MaxBoneInfluences int
	HasCloth          bool
}

func (c Chunk) NumVertices() int { return c.NumRigid + c.NumSoft }

// Grouping is either Legacy or Unified.
type Grouping interface {
	sections() []Section
}

// Legacy holds thin sections, which only draw, and the chunks that own the
// vertices.
type Legacy struct {
	Sections []Section
	Chunks   []Chunk
}

// Unified sections carry their own vertex range and bone map.
type Unified struct {
	Sections []Section
}

func (l Legacy) sections() []Section { return l.Sections }
func (u Unified) sections() []Section { return u.Sections }

// HasCloth reports whether any section or chunk carries cloth mapping data.
func HasCloth(g Grouping) bool {
	for _, s := range g.sections() {
		if s.HasCloth {
			return true
		}
	}
	if l, ok := g.(Legacy); ok {
		for _, c := range l.Chunks {
			if c.HasCloth {
				return true
			}
		}
	}
	return false
}

// Group is one contiguous vertex range with its bone map. Section is the index
// of the unified section or legacy chunk it came from.
type Group struct {
	Section           int
	MaterialIndex     int
	BaseVertex        int
	NumVertices       int
	BoneMap           []uint16
	MaxBoneInfluences int
}

// End is one past the last vertex of the group.
func (g Group) End() int { return g.BaseVertex + g.NumVertices }

// Draw is one output section: a material and an index range.
type Draw struct {
	MaterialIndex int
	FirstIndex    int
	NumTriangles  int
}

// RemapMaterial translates a section material through a LOD material override
// table. Indices outside the table are kept.
func RemapMaterial(index int, materialMap []int) int {
	if index >= 0 && index < len(materialMap) {
		return materialMap[index]
	}
	return index
}

// Reconcile converts g into vertex groups sorted by ascending base vertex.
// Legacy groups come from the chunks in order; the stored chunk reference of a
// thin section is not used. A chunk takes the material of the section at the
// same position only when both lists have the same length, otherwise
// MaterialIndex is -1.
func Reconcile(g Grouping, materialMap []int) ([]Group, error) {
	var groups []Group
	switch g := g.(type) {
	case Legacy:
		paired := len(g.Sections) == len(g.Chunks)
		for i, c := range g.Chunks {
			material := -1
			if paired {
				material = RemapMaterial(g.Sections[i].MaterialIndex, materialMap)
			}
			groups = append(groups, Group{
				Section:           i,
				MaterialIndex:     material,
				BaseVertex:        c.BaseVertex,
				NumVertices:       c.NumVertices(),
				BoneMap:           c.BoneMap,
				MaxBoneInfluences: c.MaxBoneInfluences,
			})
		}
	case Unified:
		for i, s := range g.Sections {
			groups = append(groups, Group{
				Section:           i,
				MaterialIndex:     RemapMaterial(s.MaterialIndex, materialMap),
				BaseVertex:        s.BaseVertex,
				NumVertices:       s.NumVertices,
				BoneMap:           s.BoneMap,
				MaxBoneInfluences: s.MaxBoneInfluences,
			})
		}
	default:
		return nil, fmt.Errorf("sections: unknown grouping %T", g)
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].BaseVertex < groups[b].BaseVertex
	})
	return groups, nil
}

// Draws returns one draw per section of g in stored order, with materials
// remapped through materialMap.
func Draws(g Grouping, materialMap []int) []Draw {
	secs := g.sections()
	out := make([]Draw, len(secs))
	for i, s := range secs {
		out[i] = Draw{
			MaterialIndex: RemapMaterial(s.MaterialIndex, materialMap),
			FirstIndex:    s.FirstIndex,
			NumTriangles:  s.NumTriangles,
		}
	}
	return out
}

// CheckCoverage verifies that the groups tile [0, total) without gaps or overlaps.
func CheckCoverage(groups []Group, total int) error {
	next := 0
	for _, g := range groups {
		if g.NumVertices < 0 || g.BaseVertex != next {
			return &mesh.DecodeError{LOD: -1, Section: g.Section,
				Err: fmt.Errorf("%w: vertex range [%d, %d) does not start at %d", mesh.ErrMalformed, g.BaseVertex, g.End(), next)}
		}
		next = g.End()
	}
	if next != total {
		return &mesh.DecodeError{LOD: -1, Section: -1,
			Err: fmt.Errorf("%w: groups cover %d of %d vertices", mesh.ErrMalformed, next, total)}
	}
	return nil
}

// DeriveVertexCounts fills NumVertices of unified sections decoded from packages
// that did not store it, using the next section's base vertex or total.
func DeriveVertexCounts(u Unified, total int) Unified {
	order := make([]int, len(u.Sections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return u.Sections[order[a]].BaseVertex < u.Sections[order[b]].BaseVertex
	})
	out := Unified{Sections: append([]Section(nil), u.Sections...)}
	for k, i := range order {
		end := total
		if k+1 < len(order) {
			end = out.Sections[order[k+1]].BaseVertex
		}
		out.Sections[i].NumVertices = end - out.Sections[i].BaseVertex
	}
	return out
}
