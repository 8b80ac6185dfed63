package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveUnknownGateFailsClosed(t *testing.T) {
	c := Context{FormatVersion: Release4_14}
	assert.False(t, c.Active(GateUnknown, StripFlags{}))
	assert.False(t, c.Active(Gate(10_000), StripFlags{}))
}

func TestActiveFormatThresholds(t *testing.T) {
	t.Run("min bound", func(t *testing.T) {
		assert.False(t, Context{FormatVersion: APEXCloth - 1}.Active(GateSectionCloth, StripFlags{}))
		assert.True(t, Context{FormatVersion: APEXCloth}.Active(GateSectionCloth, StripFlags{}))
	})

	t.Run("below bound", func(t *testing.T) {
		assert.True(t, Context{FormatVersion: KeepSkelMeshIndexData - 1}.Active(GateIndexCPUAccessFlag, StripFlags{}))
		assert.False(t, Context{FormatVersion: KeepSkelMeshIndexData}.Active(GateIndexCPUAccessFlag, StripFlags{}))
	})

	t.Run("range", func(t *testing.T) {
		assert.False(t, Context{FormatVersion: FTextHistory - 1}.Active(GateStaticLegacyDistanceField, StripFlags{}))
		assert.True(t, Context{FormatVersion: FTextHistory}.Active(GateStaticLegacyDistanceField, StripFlags{}))
		assert.False(t, Context{FormatVersion: RenameCrouchMovesCharacterDown}.Active(GateStaticLegacyDistanceField, StripFlags{}))
	})
}

func TestActiveCompositeGates(t *testing.T) {
	unified := Context{
		FormatVersion:  Release4_14,
		CustomVersions: map[Domain]int{SkeletalMesh: SaveNumVertices},
	}
	legacy := Context{FormatVersion: Release4_12}

	t.Run("custom version and server strip", func(t *testing.T) {
		assert.True(t, unified.Active(GateSectionBaseVertex, StripFlags{}))
		assert.False(t, unified.Active(GateSectionBaseVertex, StripFlags{Global: StripServer}))
		assert.False(t, legacy.Active(GateSectionBaseVertex, StripFlags{}))
	})

	t.Run("custom version range and editor strip", func(t *testing.T) {
		mid := Context{CustomVersions: map[Domain]int{SkeletalMesh: CombineSectionWithChunk}}
		assert.True(t, mid.Active(GateSectionRigidVertices, StripFlags{}))
		assert.False(t, mid.Active(GateSectionRigidVertices, StripFlags{Global: StripEditor}))
		assert.False(t, unified.Active(GateSectionRigidVertices, StripFlags{}))
	})

	t.Run("format and custom version", func(t *testing.T) {
		c := Context{FormatVersion: Release4_14, CustomVersions: map[Domain]int{EditorObject: RefactorMeshEditorMaterials}}
		assert.True(t, c.Active(GateStaticMaterials, StripFlags{}))
		c.FormatVersion = Release4_13
		assert.False(t, c.Active(GateStaticMaterials, StripFlags{}))
	})

	t.Run("class strip", func(t *testing.T) {
		assert.True(t, unified.Active(GateStaticAdjacency, StripFlags{}))
		assert.False(t, unified.Active(GateStaticAdjacency, StripFlags{Class: ClassStripAdjacency}))
	})

	t.Run("editor only data", func(t *testing.T) {
		assert.True(t, unified.Active(GateMaterialImportedSlotName, StripFlags{}))
		cooked := unified
		cooked.FilterEditorOnly = true
		assert.False(t, cooked.Active(GateMaterialImportedSlotName, StripFlags{}))
	})
}

func TestCustomFallsBackToFormatVersion(t *testing.T) {
	assert.Equal(t, 0, Context{FormatVersion: Release4_11}.Custom(RecomputeTangent))
	assert.Equal(t, RuntimeRecomputeTangent, Context{FormatVersion: Release4_12}.Custom(RecomputeTangent))
	assert.Equal(t, 0, Context{FormatVersion: Release4_14}.Custom(SkeletalMesh))

	explicit := Context{FormatVersion: Release4_14, CustomVersions: map[Domain]int{RecomputeTangent: 0}}
	assert.Equal(t, 0, explicit.Custom(RecomputeTangent))
}

func TestEveryGateHasARule(t *testing.T) {
	for g := GateUnknown + 1; g <= GateStaticMaterials; g++ {
		_, ok := RuleFor(g)
		assert.True(t, ok, "gate %d has no rule", g)
	}
}
