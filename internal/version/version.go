// Package version holds the format version constants, custom version domains and the
// gate table that every mesh decoder consults before reading a version-dependent field.
package version

// Object (package file) versions that gate mesh serialization changes.
const (
	BulkDataAtLargeOffsets                         = 198
	OldestLoadablePackage                          = 214
	StaticMeshStoreNavCollision                    = 216
	DeprecatedStaticMeshThumbnailPropertiesRemoved = 242
	APEXCloth                                      = 254
	StaticSkeletalMeshSerializationFix             = 269
	Support32BitStaticMeshIndices                  = 277
	APEXClothLOD                                   = 280
	KeepSkelMeshIndexData                          = 283
	MoveSkeletalMeshShadowCasting                  = 302
	ReferenceSkeletonRefactor                      = 310
	FixupRootBoneParent                            = 317
	Support8BoneInfluencesSkeletalMeshes           = 332
	SupportGPUSkinning8BoneInfluences              = 334
	RemoveExtraSkelMeshVertexInfluences            = 338
	StoreBoneExportNames                           = 339
	AddSkelMeshMeshToImportVertexMap               = 353
	FTextHistory                                   = 368
	RenameCrouchMovesCharacterDown                 = 394
	DeprecateUMGStyleAssets                        = 397
	RenameWidgetVisibility                         = 406
	SoundConcurrencyPackage                        = 489
)

// Engine release anchors, expressed as the first object version shipped with the release.
const (
	Release4_0  = 342
	Release4_9  = 482
	Release4_11 = 498
	Release4_12 = 504
	Release4_13 = 505
	Release4_14 = 508
)

// Domain names an independent custom version counter.
type Domain string

const (
	SkeletalMesh     Domain = "SkeletalMesh"
	EditorObject     Domain = "EditorObject"
	RenderingObject  Domain = "RenderingObject"
	RecomputeTangent Domain = "RecomputeTangent"
)

// SkeletalMesh custom versions.
const (
	CombineSectionWithChunk  = 1
	CombineSoftAndRigidVerts = 2
	RecalcMaxBoneInfluences  = 3
	SaveNumVertices          = 4
)

// EditorObject custom versions.
const (
	RefactorMeshEditorMaterials = 8
)

// RenderingObject custom versions.
const (
	TextureStreamingMeshUVChannelData = 10
)

// RecomputeTangent custom versions.
const (
	RuntimeRecomputeTangent = 1
)

// Context is the version state of one package, resolved by the package loader.
type Context struct {
	FormatVersion   int
	LicenseeVersion int
	CustomVersions  map[Domain]int

	// FilterEditorOnly is set for cooked packages whose editor-only data was never written.
	FilterEditorOnly bool
}

// Custom returns the custom version of d. Domains missing from the package header fall back
// to the value implied by the format version, or 0.
func (c Context) Custom(d Domain) int {
	if v, ok := c.CustomVersions[d]; ok {
		return v
	}
	if d == RecomputeTangent && c.FormatVersion >= Release4_12 {
		return RuntimeRecomputeTangent
	}
	return 0
}

// ContainsEditorData reports whether editor-only properties were serialized.
func (c Context) ContainsEditorData() bool {
	return !c.FilterEditorOnly
}
