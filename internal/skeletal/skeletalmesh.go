// Package skeletal decodes skeletal mesh exports and converts them to the
// canonical mesh.
package skeletal

import (
	"fmt"

	"go.uber.org/zap"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/engine"
	"uemesh-converter/internal/mesh"
)

// Properties are the tagged properties of the export that affect decoding. They
// are resolved by the package loader.
type Properties struct {
	HasVertexColors bool
	// LODMaterialMaps holds, per LOD, the section material override table.
	LODMaterialMaps [][]int
}

func (p Properties) materialMap(lod int) []int {
	if lod < len(p.LODMaterialMaps) {
		return p.LODMaterialMaps[lod]
	}
	return nil
}

// SkeletalMesh is a decoded skeletal mesh export.
type SkeletalMesh struct {
	Bounds        engine.BoxSphereBounds
	Materials     []Material
	Skeleton      RefSkeleton
	Lods          []LodModel
	TrailingBytes int
}

// Decode reads a skeletal mesh export body. Trailing data after the LOD models
// is discarded.
func Decode(r *archive.Reader, props Properties, rep *mesh.Reporter) (*SkeletalMesh, error) {
	s := &SkeletalMesh{}
	r.StripFlags()
	s.Bounds = engine.ReadBoxSphereBounds(r)
	s.Materials = archive.Array(r, 4, readMaterial)
	if err := r.Err(); err != nil {
		return nil, decodeError(-1, "materials", err)
	}
	s.Skeleton = readRefSkeleton(r)
	if err := r.Err(); err != nil {
		return nil, decodeError(-1, "reference skeleton", err)
	}

	n := r.Count(4)
	if err := r.Err(); err != nil {
		return nil, decodeError(-1, "lod count", err)
	}
	s.Lods = make([]LodModel, 0, n)
	for i := 0; i < n; i++ {
		lod, err := readLod(r, i, props, rep)
		if err == nil {
			err = r.Err()
		}
		if err != nil {
			return nil, decodeError(i, "lod model", err)
		}
		s.Lods = append(s.Lods, lod)
	}

	s.TrailingBytes = r.DropRemaining()
	if s.TrailingBytes > 0 {
		rep.Logger().Debug("discarded trailing data", zap.Int("bytes", s.TrailingBytes))
	}
	return s, nil
}

func decodeError(lod int, what string, err error) error {
	return mesh.Fatal(lod, fmt.Errorf("skeletal: %s: %w", what, err))
}

// Build converts a decoded mesh to the canonical form. Any LOD failure aborts the
// conversion.
func (s *SkeletalMesh) Build(name string, props Properties, rep *mesh.Reporter) (*mesh.Mesh, error) {
	m := mesh.New(name, mesh.Skeletal)
	m.Bounds = s.Bounds.Canonical()
	for _, mat := range s.Materials {
		m.Materials = append(m.Materials, mat.canonical())
	}

	bones, err := s.Skeleton.canonical(rep)
	if err != nil {
		return nil, err
	}
	m.Bones = bones

	m.Lods = make([]mesh.Lod, 0, len(s.Lods))
	for i, src := range s.Lods {
		lod, err := assembleLod(src, i, props.materialMap(i), rep)
		if err != nil {
			return nil, err
		}
		m.Lods = append(m.Lods, lod)
	}
	m.Warnings = rep.Warnings()
	return m, nil
}

// Convert decodes a skeletal mesh export and converts it to the canonical mesh.
func Convert(r *archive.Reader, name string, props Properties, log *zap.Logger) (*mesh.Mesh, error) {
	rep := mesh.NewReporter(log)
	s, err := Decode(r, props, rep)
	if err != nil {
		return nil, err
	}
	return s.Build(name, props, rep)
}
