package skeletal

import (
	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/engine"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

// Material is one skeletal material slot.
type Material struct {
	Ref              int32
	SlotName         string
	ImportedSlotName string
	CastShadow       bool
	RecomputeTangent bool
	UVChannels       engine.UVChannelInfo
}

func readMaterial(r *archive.Reader) Material {
	none := version.StripFlags{}
	m := Material{Ref: r.ObjectRef(), CastShadow: true}
	if r.Active(version.GateMaterialSlotName, none) {
		m.SlotName = r.Name()
		if r.Active(version.GateMaterialImportedSlotName, none) {
			m.ImportedSlotName = r.Name()
		}
	} else {
		if r.Active(version.GateSkelMaterialShadowCasting, none) {
			m.CastShadow = r.Bool()
		}
		if r.Active(version.GateSkelMaterialRecomputeTangent, none) {
			m.RecomputeTangent = r.Bool()
		}
	}
	if r.Active(version.GateMaterialUVChannelData, none) {
		m.UVChannels = engine.ReadUVChannelInfo(r)
	}
	return m
}

func (m Material) canonical() mesh.Material {
	return mesh.Material{SlotName: m.SlotName, Ref: m.Ref}
}
