// Package staticmesh decodes static mesh exports and converts them to the
// canonical mesh, either from the cooked render data or from the editor source
// models.
package staticmesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/engine"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

// Serialized array lengths that do not depend on the mesh.
const (
	streamingFactors = mesh.MaxUVSets + 1
	maxScreenSizes   = 8
	legacyScreenSize = 4
)

// BuildSettings are the per source model build options that affect conversion.
type BuildSettings struct {
	RecomputeNormals  bool
	RecomputeTangents bool
}

// Properties are the tagged properties of the export that affect decoding.
type Properties struct {
	// Materials holds the material references of packages that predate static
	// material slots.
	Materials []int32
	// SourceModels holds one entry per serialized source model.
	SourceModels []BuildSettings
	// PreferSource converts the source models even when cooked data is present.
	PreferSource bool
}

// SourceModel is one editor source model. Raw is nil for generated LODs.
type SourceModel struct {
	Settings BuildSettings
	Raw      *RawMesh
}

// SectionInfo is the editor per-section material and collision setting.
type SectionInfo struct {
	MaterialIndex   int
	EnableCollision bool
	CastShadow      bool
}

// Material is one static material slot.
type Material struct {
	Ref              int32
	SlotName         string
	ImportedSlotName string
	UVChannels       engine.UVChannelInfo
}

func readMaterial(r *archive.Reader) Material {
	none := version.StripFlags{}
	m := Material{Ref: r.ObjectRef(), SlotName: r.Name()}
	if r.Active(version.GateMaterialImportedSlotName, none) {
		m.ImportedSlotName = r.Name()
	}
	if r.Active(version.GateMaterialUVChannelData, none) {
		m.UVChannels = engine.ReadUVChannelInfo(r)
	}
	return m
}

// StaticMesh is a decoded static mesh export.
type StaticMesh struct {
	Cooked         bool
	BodySetup      int32
	NavCollision   int32
	HighResSource  string
	LightingGuid   [16]byte
	Sockets        []int32
	SourceModels   []SourceModel
	SectionInfo    map[uint32]SectionInfo
	Lods           []LodModel
	DistanceFields []DistanceField
	Bounds         engine.BoxSphereBounds
	SharedLighting bool
	ScreenSizes    []float32
	Materials      []Material
	SpeedTreeWind  bool
	TrailingBytes  int
}

// Decode reads a static mesh export body.
func Decode(r *archive.Reader, props Properties, rep *mesh.Reporter) (*StaticMesh, error) {
	s := &StaticMesh{}
	none := version.StripFlags{}
	strip := r.StripFlags()
	s.Cooked = r.Bool()
	s.BodySetup = r.ObjectRef()
	if r.Active(version.GateStaticNavCollision, none) {
		s.NavCollision = r.ObjectRef()
	}
	if r.Active(version.GateStaticThumbnail, strip) {
		engine.ReadRotator(r)
		r.F32() // thumbnail distance
	}
	if r.Active(version.GateStaticHighResSource, strip) {
		s.HighResSource = r.String()
		r.U32() // source CRC
	}
	s.LightingGuid = r.Guid()
	s.Sockets = archive.Array(r, 4, (*archive.Reader).ObjectRef)
	if err := r.Err(); err != nil {
		return nil, decodeError(-1, "header", err)
	}
	if len(s.Sockets) > 0 {
		rep.Warn(mesh.WarnUnsupported, -1, "dropped %d sockets", len(s.Sockets))
	}

	if r.Active(version.GateStaticSourceModels, strip) {
		if err := s.readSourceModels(r, props, rep); err != nil {
			return nil, err
		}
	}
	if s.Cooked {
		if err := s.readRenderData(r, strip, rep); err != nil {
			return nil, err
		}
	}

	if r.Active(version.GateStaticSpeedTree, none) {
		s.SpeedTreeWind = r.Bool()
		if s.SpeedTreeWind {
			n := r.DropRemaining()
			rep.Warn(mesh.WarnUnsupported, -1, "dropped SpeedTree wind and material data (%d bytes)", n)
			return s, nil
		}
		if r.Active(version.GateStaticMaterials, none) {
			s.Materials = archive.Array(r, 12, readMaterial)
		}
	}
	if err := r.Err(); err != nil {
		return nil, decodeError(-1, "static materials", err)
	}

	s.TrailingBytes = r.DropRemaining()
	if s.TrailingBytes > 0 {
		rep.Logger().Debug("discarded trailing data", zap.Int("bytes", s.TrailingBytes))
	}
	return s, nil
}

func (s *StaticMesh) readSourceModels(r *archive.Reader, props Properties, rep *mesh.Reporter) error {
	for i, settings := range props.SourceModels {
		bulk := r.ReadBulkData()
		r.Guid()
		r.Bool() // guid is a hash
		if err := r.Err(); err != nil {
			return decodeError(-1, fmt.Sprintf("source model %d", i), err)
		}
		sm := SourceModel{Settings: settings}
		switch {
		case bulk.ElementCount == 0:
			// generated LOD
		case !bulk.Inline():
			rep.Warn(mesh.WarnMissingData, -1, "source model %d payload is not stored inline", i)
		default:
			data, err := bulk.Data()
			if err != nil {
				return decodeError(-1, fmt.Sprintf("source model %d", i), err)
			}
			raw, err := ReadRawMesh(r.Sub(data))
			if err != nil {
				return decodeError(-1, fmt.Sprintf("source model %d", i), err)
			}
			sm.Raw = &raw
		}
		s.SourceModels = append(s.SourceModels, sm)
	}

	s.SectionInfo = map[uint32]SectionInfo{}
	archive.Map(r, 16, func(r *archive.Reader) {
		key := r.U32()
		s.SectionInfo[key] = SectionInfo{MaterialIndex: int(r.I32()), EnableCollision: r.Bool(), CastShadow: r.Bool()}
	})
	if err := r.Err(); err != nil {
		return decodeError(-1, "section info", err)
	}
	return nil
}

// readDistanceFields reads the optional per-LOD distance field volumes. The
// server strip flag only applies once the block carries its own strip flags;
// the outer flags decide even then.
func readDistanceFields(r *archive.Reader, strip version.StripFlags, numLods int) []DistanceField {
	none := version.StripFlags{}
	if !r.Active(version.GateStaticDistanceFieldData, none) {
		return nil
	}
	stripped := false
	if r.Active(version.GateStaticDistanceFieldStripFlags, none) {
		r.StripFlags()
		stripped = strip.IsDataStrippedForServer()
	}
	if stripped {
		return nil
	}
	var fields []DistanceField
	for i := 0; i < numLods; i++ {
		if r.Bool() {
			fields = append(fields, readDistanceField(r))
		}
	}
	return fields
}

func (s *StaticMesh) readRenderData(r *archive.Reader, strip version.StripFlags, rep *mesh.Reporter) error {
	none := version.StripFlags{}
	n := r.Count(4)
	if err := r.Err(); err != nil {
		return decodeError(-1, "lod count", err)
	}
	s.Lods = make([]LodModel, 0, n)
	for i := 0; i < n; i++ {
		lod, err := readLod(r, i, rep)
		if err == nil {
			err = r.Err()
		}
		if err != nil {
			return decodeError(i, "lod model", err)
		}
		s.Lods = append(s.Lods, lod)
	}

	s.DistanceFields = readDistanceFields(r, strip, len(s.Lods))

	s.Bounds = engine.ReadBoxSphereBounds(r)
	s.SharedLighting = r.Bool()
	if r.Active(version.GateStaticSimplygon, none) {
		r.Bool()
	}
	if r.Active(version.GateStaticStreamingFactors, none) {
		r.Skip(4 * streamingFactors)
	}
	screens := legacyScreenSize
	if r.Active(version.GateStaticEightScreenSizes, none) {
		screens = maxScreenSizes
	}
	s.ScreenSizes = make([]float32, screens)
	for i := range s.ScreenSizes {
		s.ScreenSizes[i] = r.F32()
	}
	if err := r.Err(); err != nil {
		return decodeError(-1, "render data", err)
	}
	if len(s.DistanceFields) > 0 {
		rep.Logger().Debug("discarded distance fields", zap.Int("count", len(s.DistanceFields)))
	}
	return nil
}

func decodeError(lod int, what string, err error) error {
	return mesh.Fatal(lod, fmt.Errorf("staticmesh: %s: %w", what, err))
}

// hasSource reports whether any source model carries imported geometry.
func (s *StaticMesh) hasSource() bool {
	for _, sm := range s.SourceModels {
		if sm.Raw != nil {
			return true
		}
	}
	return false
}

func (s *StaticMesh) materials(props Properties) []mesh.Material {
	var out []mesh.Material
	if len(s.Materials) > 0 {
		for _, m := range s.Materials {
			out = append(out, mesh.Material{SlotName: m.SlotName, Ref: m.Ref})
		}
		return out
	}
	for _, ref := range props.Materials {
		out = append(out, mesh.Material{Ref: ref})
	}
	return out
}

// Build converts a decoded mesh to the canonical form. Cooked meshes use the
// compiled LODs unless props.PreferSource selects the source models; meshes
// without cooked data always use the source models.
func (s *StaticMesh) Build(name string, props Properties, rep *mesh.Reporter) (*mesh.Mesh, error) {
	m := mesh.New(name, mesh.Static)
	m.Materials = s.materials(props)

	if s.Cooked && !(props.PreferSource && s.hasSource()) {
		m.Bounds = s.Bounds.Canonical()
		m.Lods = make([]mesh.Lod, 0, len(s.Lods))
		for i, src := range s.Lods {
			lod, err := assembleLod(src, i, rep)
			if err != nil {
				return nil, err
			}
			m.Lods = append(m.Lods, lod)
		}
		m.Warnings = rep.Warnings()
		return m, nil
	}

	var points []mgl32.Vec3
	for _, sm := range s.SourceModels {
		if sm.Raw == nil {
			continue
		}
		lod, err := assembleRaw(sm.Raw, sm.Settings, len(m.Lods), rep)
		if err != nil {
			return nil, err
		}
		m.Lods = append(m.Lods, lod)
		points = append(points, sm.Raw.VertexPositions...)
	}
	if s.Cooked {
		m.Bounds = s.Bounds.Canonical()
	} else {
		m.Bounds = mesh.FromPoints(points)
	}
	if len(m.Lods) == 0 {
		rep.Warn(mesh.WarnMissingData, -1, "no cooked data and no imported source models")
	}
	m.Warnings = rep.Warnings()
	return m, nil
}

// Convert decodes a static mesh export and converts it to the canonical mesh.
func Convert(r *archive.Reader, name string, props Properties, log *zap.Logger) (*mesh.Mesh, error) {
	rep := mesh.NewReporter(log)
	s, err := Decode(r, props, rep)
	if err != nil {
		return nil, err
	}
	return s.Build(name, props, rep)
}
