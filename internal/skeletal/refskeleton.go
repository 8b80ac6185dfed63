package skeletal

import (
	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/engine"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

// BoneInfo is the name and hierarchy entry of one reference bone.
type BoneInfo struct {
	Name        string
	ParentIndex int
	ExportName  string
}

// RefSkeleton is the bind pose skeleton of a skeletal mesh.
type RefSkeleton struct {
	Bones       []BoneInfo
	Pose        []engine.Transform
	NameToIndex map[string]int
}

func readBoneInfo(r *archive.Reader) BoneInfo {
	none := version.StripFlags{}
	b := BoneInfo{Name: r.Name(), ParentIndex: int(r.I32())}
	if r.Active(version.GateBoneInfoColor, none) {
		r.Color()
	}
	if r.Active(version.GateBoneExportName, none) {
		b.ExportName = r.String()
	}
	return b
}

func readRefSkeleton(r *archive.Reader) RefSkeleton {
	none := version.StripFlags{}
	var s RefSkeleton
	s.Bones = archive.Array(r, 12, readBoneInfo)
	s.Pose = archive.Array(r, 40, engine.ReadTransform)
	if r.Active(version.GateBoneNameToIndexMap, none) {
		s.NameToIndex = map[string]int{}
		archive.Map(r, 12, func(r *archive.Reader) {
			name := r.Name()
			s.NameToIndex[name] = int(r.I32())
		})
	}
	if r.Active(version.GateFixupRootBoneParent, none) && len(s.Bones) > 0 {
		s.Bones[0].ParentIndex = -1
	}
	return s
}

// canonical converts the skeleton. Non-root orientations are conjugated; bones
// with a non-identity scale are flagged and reported.
func (s RefSkeleton) canonical(rep *mesh.Reporter) ([]mesh.Bone, error) {
	if len(s.Pose) != len(s.Bones) {
		return nil, mesh.Malformed(-1, "skeleton has %d bones and %d poses", len(s.Bones), len(s.Pose))
	}
	bones := make([]mesh.Bone, len(s.Bones))
	for i, info := range s.Bones {
		pose := s.Pose[i]
		if info.ParentIndex >= i || info.ParentIndex < -1 {
			return nil, mesh.Malformed(-1, "bone %d %q has parent %d", i, info.Name, info.ParentIndex)
		}
		b := mesh.Bone{
			Name:        info.Name,
			ParentIndex: info.ParentIndex,
			Position:    pose.Translation,
			Orientation: pose.Rotation,
			HasScale:    pose.HasScale(),
		}
		if b.HasScale {
			rep.Warn(mesh.WarnUnsupported, -1, "bone %q has scale %v", info.Name, pose.Scale)
		}
		if i > 0 {
			b.Orientation = b.Orientation.Conjugate()
		}
		bones[i] = b
	}
	return bones, nil
}
