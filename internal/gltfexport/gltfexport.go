// Package gltfexport writes one LOD of a canonical mesh as a glTF document.
package gltfexport

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/skeleton"
)

// Options select what is exported.
type Options struct {
	LOD int
}

// Build converts one LOD of m into a glTF document. Each section becomes a
// primitive; skeletal meshes also get bone nodes and a skin.
func Build(m *mesh.Mesh, opts Options) (*gltf.Document, error) {
	if opts.LOD < 0 || opts.LOD >= len(m.Lods) {
		return nil, fmt.Errorf("gltfexport: %s has %d LODs, LOD %d requested", m.Name, len(m.Lods), opts.LOD)
	}
	lod := &m.Lods[opts.LOD]
	if len(lod.Verts) == 0 {
		return nil, fmt.Errorf("gltfexport: %s LOD %d has no vertices", m.Name, opts.LOD)
	}

	doc := gltf.NewDocument()
	for i, mat := range m.Materials {
		name := mat.SlotName
		if name == "" {
			name = fmt.Sprintf("material_%d", i)
		}
		doc.Materials = append(doc.Materials, &gltf.Material{Name: name})
	}

	attrs := writeAttributes(doc, lod)
	skinned := m.Kind == mesh.Skeletal && len(m.Bones) > 0
	if skinned {
		writeInfluences(doc, lod, attrs)
	}

	gm := &gltf.Mesh{Name: m.Name}
	for _, r := range drawRanges(lod) {
		p := &gltf.Primitive{
			Attributes: attrs,
			Indices:    gltf.Index(modeler.WriteIndices(doc, r.indices)),
		}
		if r.material >= 0 && r.material < len(doc.Materials) {
			p.Material = gltf.Index(uint32(r.material))
		}
		gm.Primitives = append(gm.Primitives, p)
	}
	doc.Meshes = append(doc.Meshes, gm)

	node := &gltf.Node{Name: m.Name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))}
	doc.Nodes = append(doc.Nodes, node)
	scene := doc.Scenes[0]
	scene.Nodes = append(scene.Nodes, uint32(len(doc.Nodes)-1))

	if skinned {
		roots, skin := addSkeleton(doc, m.Bones)
		node.Skin = gltf.Index(skin)
		scene.Nodes = append(scene.Nodes, roots...)
	}
	return doc, nil
}

func writeAttributes(doc *gltf.Document, lod *mesh.Lod) map[string]uint32 {
	n := len(lod.Verts)
	pos := make([][3]float32, n)
	for i, v := range lod.Verts {
		pos[i] = v.Position
	}
	attrs := map[string]uint32{"POSITION": modeler.WritePosition(doc, pos)}

	if lod.HasNormals {
		normals := make([][3]float32, n)
		for i, v := range lod.Verts {
			normals[i] = v.Normal
		}
		attrs["NORMAL"] = modeler.WriteNormal(doc, normals)
	}
	if lod.HasNormals && lod.HasTangents {
		tangents := make([][4]float32, n)
		for i, v := range lod.Verts {
			tangents[i] = v.Tangent.Vec4(v.BinormalSign)
		}
		attrs["TANGENT"] = modeler.WriteTangent(doc, tangents)
	}
	for k := 0; k < lod.NumTexCoords; k++ {
		uv := make([][2]float32, n)
		for i, v := range lod.Verts {
			uv[i] = v.UV[k]
		}
		attrs[fmt.Sprintf("TEXCOORD_%d", k)] = modeler.WriteTextureCoord(doc, uv)
	}
	if len(lod.Colors) == n {
		attrs["COLOR_0"] = modeler.WriteColor(doc, lod.Colors)
	}
	return attrs
}

func writeInfluences(doc *gltf.Document, lod *mesh.Lod, attrs map[string]uint32) {
	joints := make([][4]uint16, len(lod.Verts))
	weights := make([][4]float32, len(lod.Verts))
	for i, v := range lod.Verts {
		for k, b := range v.Bones {
			if b == mesh.NoBone {
				break
			}
			joints[i][k] = uint16(b)
			weights[i][k] = float32(v.Weights[k]) / mesh.FullWeight
		}
	}
	attrs["JOINTS_0"] = modeler.WriteJoints(doc, joints)
	attrs["WEIGHTS_0"] = modeler.WriteWeights(doc, weights)
}

type drawRange struct {
	material int
	indices  []uint32
}

// drawRanges splits the index buffer by section. A LOD without sections is drawn
// as one range.
func drawRanges(lod *mesh.Lod) []drawRange {
	all := lod.Indices.Uint32s()
	if len(lod.Sections) == 0 {
		return []drawRange{{material: -1, indices: all}}
	}
	var out []drawRange
	for _, s := range lod.Sections {
		lo, hi := s.FirstIndex, s.FirstIndex+3*s.NumFaces
		if lo < 0 || hi > len(all) || lo >= hi {
			continue
		}
		out = append(out, drawRange{material: s.MaterialIndex, indices: all[lo:hi]})
	}
	return out
}

// addSkeleton appends one node per bone and a skin over them. It returns the
// root bone nodes and the skin index.
func addSkeleton(doc *gltf.Document, bones []mesh.Bone) ([]uint32, uint32) {
	base := uint32(len(doc.Nodes))
	children := skeleton.Children(bones)
	joints := make([]uint32, len(bones))
	for i, b := range bones {
		q := skeleton.LocalRotation(bones, i)
		node := &gltf.Node{
			Name:        b.Name,
			Translation: b.Position,
			Rotation:    [4]float32{q.V[0], q.V[1], q.V[2], q.W},
			Scale:       [3]float32{1, 1, 1},
		}
		for _, c := range children[i] {
			node.Children = append(node.Children, base+uint32(c))
		}
		doc.Nodes = append(doc.Nodes, node)
		joints[i] = base + uint32(i)
	}

	var roots []uint32
	for _, r := range skeleton.Roots(bones) {
		roots = append(roots, base+uint32(r))
	}
	doc.Skins = append(doc.Skins, &gltf.Skin{
		Joints:              joints,
		Skeleton:            gltf.Index(roots[0]),
		InverseBindMatrices: gltf.Index(writeMatrices(doc, skeleton.InverseBindMatrices(bones))),
	})
	return roots, uint32(len(doc.Skins) - 1)
}

// writeMatrices stores column-major 4x4 matrices as a MAT4 accessor.
func writeMatrices(doc *gltf.Document, mats []mgl32.Mat4) uint32 {
	cols := make([][4]float32, 0, len(mats)*4)
	for _, m := range mats {
		for c := 0; c < 4; c++ {
			cols = append(cols, [4]float32(m.Col(c)))
		}
	}
	acc := modeler.WriteTangent(doc, cols)
	a := doc.Accessors[acc]
	a.Type = gltf.AccessorMat4
	a.Count /= 4
	if a.BufferView != nil {
		doc.BufferViews[*a.BufferView].ByteStride = 0
	}
	return acc
}

// Write exports one LOD of m to path; a .glb extension selects the binary container.
func Write(m *mesh.Mesh, path string, opts Options) error {
	doc, err := Build(m, opts)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("gltfexport: write %s: %w", path, err)
	}
	return nil
}
