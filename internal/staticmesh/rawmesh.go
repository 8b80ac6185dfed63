package staticmesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/indexbuf"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/vertex"
)

// rawMeshMaterialImportMap is the first raw mesh version storing the material
// import index table.
const rawMeshMaterialImportMap = 1

// RawMesh is the editor source geometry of one LOD: per-face materials, shared
// positions and per-wedge attributes, three wedges per face.
type RawMesh struct {
	Version         int32
	LicenseeVersion int32

	FaceMaterialIndices []int32
	FaceSmoothingMask   []uint32
	VertexPositions     []mgl32.Vec3
	WedgeIndices        []uint32
	WedgeTangent        []mgl32.Vec3
	WedgeBinormal       []mgl32.Vec3
	WedgeNormal         []mgl32.Vec3
	WedgeTexCoords      [mesh.MaxUVSets][]mgl32.Vec2
	WedgeColors         [][4]uint8

	MaterialIndexToImportIndex []int32
}

// ReadRawMesh decodes a raw mesh from the payload of a source model.
func ReadRawMesh(r *archive.Reader) (RawMesh, error) {
	var m RawMesh
	m.Version = r.I32()
	m.LicenseeVersion = r.I32()
	m.FaceMaterialIndices = archive.Array(r, 4, (*archive.Reader).I32)
	m.FaceSmoothingMask = archive.Array(r, 4, (*archive.Reader).U32)
	m.VertexPositions = archive.Array(r, 12, (*archive.Reader).Vec3)
	m.WedgeIndices = archive.Array(r, 4, (*archive.Reader).U32)
	m.WedgeTangent = archive.Array(r, 12, (*archive.Reader).Vec3)
	m.WedgeBinormal = archive.Array(r, 12, (*archive.Reader).Vec3)
	m.WedgeNormal = archive.Array(r, 12, (*archive.Reader).Vec3)
	for i := range m.WedgeTexCoords {
		m.WedgeTexCoords[i] = archive.Array(r, 8, (*archive.Reader).Vec2)
	}
	m.WedgeColors = archive.Array(r, 4, (*archive.Reader).Color)
	if m.Version >= rawMeshMaterialImportMap {
		m.MaterialIndexToImportIndex = archive.Array(r, 4, (*archive.Reader).I32)
	}
	if err := r.Err(); err != nil {
		return m, fmt.Errorf("staticmesh: read raw mesh: %w", err)
	}
	return m, nil
}

// NumTexCoords is the number of leading non-empty UV sets.
func (m *RawMesh) NumTexCoords() int {
	for i, uv := range m.WedgeTexCoords {
		if len(uv) == 0 {
			return i
		}
	}
	return len(m.WedgeTexCoords)
}

// Sections splits the faces into runs of equal material. A new section starts
// at every material change; runs of the same material are never merged.
func (m *RawMesh) Sections() []mesh.Section {
	var secs []mesh.Section
	for i, mat := range m.FaceMaterialIndices {
		if n := len(secs); n == 0 || int(mat) != secs[n-1].MaterialIndex {
			secs = append(secs, mesh.Section{MaterialIndex: int(mat), FirstIndex: i * 3})
		}
	}
	for i := range secs {
		next := len(m.FaceMaterialIndices) * 3
		if i+1 < len(secs) {
			next = secs[i+1].FirstIndex
		}
		secs[i].NumFaces = (next - secs[i].FirstIndex) / 3
	}
	return secs
}

func (m *RawMesh) validate() error {
	n := len(m.WedgeIndices)
	if n != 3*len(m.FaceMaterialIndices) {
		return fmt.Errorf("%w: %d wedges for %d faces", mesh.ErrMalformed, n, len(m.FaceMaterialIndices))
	}
	for i, p := range m.WedgeIndices {
		if int64(p) >= int64(len(m.VertexPositions)) {
			return fmt.Errorf("%w: wedge %d references position %d of %d", mesh.ErrMalformed, i, p, len(m.VertexPositions))
		}
	}
	for i := 0; i < m.NumTexCoords(); i++ {
		if len(m.WedgeTexCoords[i]) != n {
			return fmt.Errorf("%w: UV set %d has %d entries for %d wedges", mesh.ErrMalformed, i, len(m.WedgeTexCoords[i]), n)
		}
	}
	return nil
}

// assembleRaw builds a canonical LOD with one vertex per wedge and sequential
// indices.
func assembleRaw(m *RawMesh, settings BuildSettings, lod int, rep *mesh.Reporter) (mesh.Lod, error) {
	n := len(m.WedgeIndices)
	out := mesh.Lod{NumTexCoords: m.NumTexCoords()}
	if err := m.validate(); err != nil {
		return out, mesh.LodError(lod, err)
	}
	out.HasNormals = !settings.RecomputeNormals && len(m.WedgeNormal) == n && n > 0
	out.HasTangents = out.HasNormals && !settings.RecomputeTangents &&
		len(m.WedgeTangent) == n && len(m.WedgeBinormal) == n

	out.Sections = m.Sections()
	out.Verts = make([]mesh.Vertex, n)
	for i, p := range m.WedgeIndices {
		v := &out.Verts[i]
		v.Position = m.VertexPositions[p]
		v.ClearInfluences()
		for k := 0; k < out.NumTexCoords; k++ {
			v.UV[k] = m.WedgeTexCoords[k][i]
		}
		switch {
		case out.HasTangents:
			vertex.BasisFromVectors(m.WedgeNormal[i], m.WedgeTangent[i], m.WedgeBinormal[i]).Apply(v)
		case out.HasNormals:
			v.Normal = m.WedgeNormal[i]
		}
	}
	out.Indices = indexbuf.Sequential(n)

	switch len(m.WedgeColors) {
	case 0:
	case n:
		out.Colors = m.WedgeColors
	default:
		rep.Warn(mesh.WarnMissingData, lod, "%d wedge colors for %d wedges", len(m.WedgeColors), n)
	}
	return out, nil
}
