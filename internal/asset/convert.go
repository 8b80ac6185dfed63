package asset

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/skeletal"
	"uemesh-converter/internal/staticmesh"
)

// ErrUnknownClass is returned for exports that are not meshes.
var ErrUnknownClass = errors.New("asset: not a mesh class")

// Options control conversion of one export.
type Options struct {
	// PreferSource converts static mesh source models even when cooked data exists.
	PreferSource bool
	Log          *zap.Logger
}

// Convert decodes the export with the converter for its class.
func (e *Export) Convert(opts Options) (*mesh.Mesh, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("export", e.Name), zap.String("class", string(e.Class)))

	var (
		m   *mesh.Mesh
		err error
	)
	switch e.Class {
	case ClassSkeletalMesh:
		m, err = skeletal.Convert(e.Reader(), e.Name, e.skeletalProperties(), log)
	case ClassStaticMesh:
		m, err = staticmesh.Convert(e.Reader(), e.Name, e.staticProperties(opts), log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, e.Class)
	}
	if err != nil {
		return nil, fmt.Errorf("asset: %s: %w", e.Name, err)
	}
	log.Debug("converted", zap.Int("lods", len(m.Lods)), zap.Int("warnings", len(m.Warnings)))
	return m, nil
}

func (e *Export) skeletalProperties() skeletal.Properties {
	return skeletal.Properties{
		HasVertexColors: e.Properties.HasVertexColors,
		LODMaterialMaps: e.Properties.LODMaterialMaps,
	}
}

func (e *Export) staticProperties(opts Options) staticmesh.Properties {
	p := staticmesh.Properties{Materials: e.Properties.Materials, PreferSource: opts.PreferSource}
	for _, b := range e.Properties.SourceModels {
		p.SourceModels = append(p.SourceModels, staticmesh.BuildSettings{
			RecomputeNormals:  b.RecomputeNormals,
			RecomputeTangents: b.RecomputeTangents,
		})
	}
	return p
}

// Convert loads the sidecar at path and converts its export.
func Convert(path string, opts Options) (*mesh.Mesh, error) {
	e, err := Load(path)
	if err != nil {
		return nil, err
	}
	return e.Convert(opts)
}
