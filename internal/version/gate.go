package version

// Gate names one version-dependent field or behavior.
type Gate int

const (
	GateUnknown Gate = iota

	// archive
	GateBulkDataLargeOffsets

	// materials
	GateMaterialSlotName
	GateMaterialImportedSlotName
	GateSkelMaterialShadowCasting
	GateSkelMaterialRecomputeTangent
	GateMaterialUVChannelData

	// reference skeleton
	GateBoneInfoColor
	GateBoneExportName
	GateBoneNameToIndexMap
	GateFixupRootBoneParent

	// skeletal sections and chunks
	GateSectionChunkIndex
	GateSectionIndexRange
	GateSectionCloth
	GateSectionClothLOD
	GateSectionRecomputeTangent
	GateSectionCastShadow
	GateSectionChunkData
	GateSectionBaseVertex
	GateSectionRigidVertices
	GateSectionSoftVertices
	GateSectionNumVertices
	GateSectionRigidSoftCounts
	GateLodChunks
	GateChunkBaseVertex
	GateChunkVertices
	GateChunkCloth
	GateSoftVertex8Influences

	// skeletal LOD
	GateIndexCPUAccessFlag
	GateLodNumVertices
	GateLodRawPointIndices
	GateLodImportVertexMap
	GateLodGeometry
	GateLodLegacyExtraInfluences
	GateLodAdjacency
	GateLodClothBuffer
	GateVertexBufferStripFlags
	GateGPUSkinExtraInfluences
	GateColorBufferData

	// static mesh
	GateRawIndex32
	GateStaticLodGeometry
	GateStaticHighPrecisionTangents
	GateStaticReversedIndices
	GateStaticLegacyDistanceField
	GateStaticWireframe
	GateStaticAdjacency
	GateStaticNavCollision
	GateStaticThumbnail
	GateStaticHighResSource
	GateStaticSourceModels
	GateDistanceFieldTwoSided
	GateDistanceFieldPlane
	GateStaticDistanceFieldData
	GateStaticDistanceFieldStripFlags
	GateStaticSimplygon
	GateStaticStreamingFactors
	GateStaticEightScreenSizes
	GateStaticSpeedTree
	GateStaticMaterials
)

// ClassStripAdjacency is the class strip bit covering adjacency index buffers.
const ClassStripAdjacency = 1

// Rule is one threshold comparison, optionally combined with strip and editor-data
// conditions. Zero bounds are open.
type Rule struct {
	FormatMin   int
	FormatBelow int

	Domain      Domain
	CustomMin   int
	CustomBelow int

	NeedEditorData bool
	NeedServerData bool
	NeedClassData  uint8

	// NeedEditorOnly requires editor-only properties in the package (not FilterEditorOnly).
	NeedEditorOnly bool
}

func (r Rule) holds(c Context, s StripFlags) bool {
	if r.FormatMin != 0 && c.FormatVersion < r.FormatMin {
		return false
	}
	if r.FormatBelow != 0 && c.FormatVersion >= r.FormatBelow {
		return false
	}
	if r.Domain != "" {
		v := c.Custom(r.Domain)
		if r.CustomMin != 0 && v < r.CustomMin {
			return false
		}
		if r.CustomBelow != 0 && v >= r.CustomBelow {
			return false
		}
	}
	if r.NeedEditorData && s.IsEditorDataStripped() {
		return false
	}
	if r.NeedServerData && s.IsDataStrippedForServer() {
		return false
	}
	if r.NeedClassData != 0 && s.IsClassDataStripped(r.NeedClassData) {
		return false
	}
	if r.NeedEditorOnly && !c.ContainsEditorData() {
		return false
	}
	return true
}

var gates = map[Gate]Rule{
	GateBulkDataLargeOffsets: {FormatMin: BulkDataAtLargeOffsets},

	GateMaterialSlotName:             {Domain: EditorObject, CustomMin: RefactorMeshEditorMaterials},
	GateMaterialImportedSlotName:     {NeedEditorOnly: true},
	GateSkelMaterialShadowCasting:    {FormatMin: MoveSkeletalMeshShadowCasting, Domain: EditorObject, CustomBelow: RefactorMeshEditorMaterials},
	GateSkelMaterialRecomputeTangent: {Domain: RecomputeTangent, CustomMin: RuntimeRecomputeTangent},
	GateMaterialUVChannelData:        {Domain: RenderingObject, CustomMin: TextureStreamingMeshUVChannelData},

	GateBoneInfoColor:       {FormatBelow: ReferenceSkeletonRefactor},
	GateBoneExportName:      {FormatMin: StoreBoneExportNames, NeedEditorOnly: true},
	GateBoneNameToIndexMap:  {FormatMin: ReferenceSkeletonRefactor},
	GateFixupRootBoneParent: {FormatBelow: FixupRootBoneParent},

	GateSectionChunkIndex:       {Domain: SkeletalMesh, CustomBelow: CombineSectionWithChunk},
	GateSectionIndexRange:       {NeedServerData: true},
	GateSectionCloth:            {FormatMin: APEXCloth},
	GateSectionClothLOD:         {FormatMin: APEXClothLOD},
	GateSectionRecomputeTangent: {Domain: RecomputeTangent, CustomMin: RuntimeRecomputeTangent},
	GateSectionCastShadow:       {Domain: EditorObject, CustomMin: RefactorMeshEditorMaterials},
	GateSectionChunkData:        {Domain: SkeletalMesh, CustomMin: CombineSectionWithChunk},
	GateSectionBaseVertex:       {Domain: SkeletalMesh, CustomMin: CombineSectionWithChunk, NeedServerData: true},
	GateSectionRigidVertices:    {Domain: SkeletalMesh, CustomMin: CombineSectionWithChunk, CustomBelow: CombineSoftAndRigidVerts, NeedEditorData: true},
	GateSectionSoftVertices:     {Domain: SkeletalMesh, CustomMin: CombineSectionWithChunk, NeedEditorData: true},
	GateSectionNumVertices:      {Domain: SkeletalMesh, CustomMin: SaveNumVertices},
	GateSectionRigidSoftCounts:  {Domain: SkeletalMesh, CustomMin: CombineSectionWithChunk, CustomBelow: CombineSoftAndRigidVerts},
	GateLodChunks:               {Domain: SkeletalMesh, CustomBelow: CombineSectionWithChunk},
	GateChunkBaseVertex:         {NeedServerData: true},
	GateChunkVertices:           {NeedEditorData: true},
	GateChunkCloth:              {FormatMin: APEXCloth},
	GateSoftVertex8Influences:   {FormatMin: Support8BoneInfluencesSkeletalMeshes},

	GateIndexCPUAccessFlag:       {FormatBelow: KeepSkelMeshIndexData},
	GateLodNumVertices:           {NeedServerData: true},
	GateLodRawPointIndices:       {NeedEditorData: true},
	GateLodImportVertexMap:       {FormatMin: AddSkelMeshMeshToImportVertexMap},
	GateLodGeometry:              {NeedServerData: true},
	GateLodLegacyExtraInfluences: {FormatBelow: RemoveExtraSkelMeshVertexInfluences},
	GateLodAdjacency:             {NeedServerData: true, NeedClassData: ClassStripAdjacency},
	GateLodClothBuffer:           {FormatMin: APEXCloth},
	GateVertexBufferStripFlags:   {FormatMin: StaticSkeletalMeshSerializationFix},
	GateGPUSkinExtraInfluences:   {FormatMin: SupportGPUSkinning8BoneInfluences},
	GateColorBufferData:          {NeedServerData: true},

	GateRawIndex32:                    {FormatMin: Support32BitStaticMeshIndices},
	GateStaticLodGeometry:             {NeedServerData: true},
	GateStaticHighPrecisionTangents:   {FormatMin: Release4_12},
	GateStaticReversedIndices:         {FormatMin: SoundConcurrencyPackage},
	GateStaticLegacyDistanceField:     {FormatMin: FTextHistory, FormatBelow: RenameCrouchMovesCharacterDown},
	GateStaticWireframe:               {NeedEditorData: true},
	GateStaticAdjacency:               {NeedClassData: ClassStripAdjacency},
	GateStaticNavCollision:            {FormatMin: StaticMeshStoreNavCollision},
	GateStaticThumbnail:               {FormatBelow: DeprecatedStaticMeshThumbnailPropertiesRemoved, NeedEditorData: true},
	GateStaticHighResSource:           {NeedEditorData: true},
	GateStaticSourceModels:            {NeedEditorData: true},
	GateDistanceFieldTwoSided:         {FormatMin: RenameCrouchMovesCharacterDown},
	GateDistanceFieldPlane:            {FormatMin: DeprecateUMGStyleAssets},
	GateStaticDistanceFieldData:       {FormatMin: RenameCrouchMovesCharacterDown},
	GateStaticDistanceFieldStripFlags: {FormatMin: RenameWidgetVisibility},
	GateStaticSimplygon:               {FormatBelow: Release4_14},
	GateStaticStreamingFactors:        {Domain: RenderingObject, CustomBelow: TextureStreamingMeshUVChannelData},
	GateStaticEightScreenSizes:        {FormatMin: Release4_9},
	GateStaticSpeedTree:               {FormatMin: Release4_14},
	GateStaticMaterials:               {FormatMin: Release4_14, Domain: EditorObject, CustomMin: RefactorMeshEditorMaterials},
}

// Active reports whether gate g holds for this package and the given strip flags.
// Unknown gates are inactive.
func (c Context) Active(g Gate, s StripFlags) bool {
	r, ok := gates[g]
	if !ok {
		return false
	}
	return r.holds(c, s)
}

// RuleFor returns the rule behind g, for diagnostics.
func RuleFor(g Gate) (Rule, bool) {
	r, ok := gates[g]
	return r, ok
}
