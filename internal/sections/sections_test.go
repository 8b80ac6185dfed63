package sections

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uemesh-converter/internal/mesh"
)

func TestReconcileLegacyTwoChunks(t *testing.T) {
	g := Legacy{
		Sections: []Section{
			{MaterialIndex: 0, ChunkIndex: 0, FirstIndex: 0, NumTriangles: 6},
			{MaterialIndex: 1, ChunkIndex: 1, FirstIndex: 18, NumTriangles: 3},
		},
		Chunks: []Chunk{
			{BaseVertex: 0, NumRigid: 4, NumSoft: 6, BoneMap: []uint16{0, 1}},
			{BaseVertex: 10, NumSoft: 5, BoneMap: []uint16{2}},
		},
	}

	groups, err := Reconcile(g, nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, 0, groups[0].BaseVertex)
	assert.Equal(t, 10, groups[0].End())
	assert.Equal(t, 10, groups[1].BaseVertex)
	assert.Equal(t, 15, groups[1].End())
	assert.Equal(t, []uint16{2}, groups[1].BoneMap)
	assert.Equal(t, 18, Draws(g, nil)[1].FirstIndex)
	require.NoError(t, CheckCoverage(groups, 15))
}

func TestReconcileLegacyIgnoresChunkReference(t *testing.T) {
	// both sections carry the default reference to chunk 0
	g := Legacy{
		Sections: []Section{
			{MaterialIndex: 3},
			{MaterialIndex: 4, FirstIndex: 30, NumTriangles: 2},
		},
		Chunks: []Chunk{
			{BaseVertex: 0, NumRigid: 10, BoneMap: []uint16{0}},
			{BaseVertex: 10, NumSoft: 5, BoneMap: []uint16{1, 2}},
		},
	}
	groups, err := Reconcile(g, []int{0, 0, 0, 1})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []uint16{0}, groups[0].BoneMap)
	assert.Equal(t, []uint16{1, 2}, groups[1].BoneMap)
	assert.Equal(t, 1, groups[0].MaterialIndex)
	assert.Equal(t, 4, groups[1].MaterialIndex)
	require.NoError(t, CheckCoverage(groups, 15))

	assert.Equal(t, []Draw{
		{MaterialIndex: 1},
		{MaterialIndex: 4, FirstIndex: 30, NumTriangles: 2},
	}, Draws(g, []int{0, 0, 0, 1}))
}

func TestReconcileLegacyCountMismatch(t *testing.T) {
	tests := []struct {
		name     string
		sections int
		chunks   []Chunk
		total    int
	}{
		{"one section over two chunks", 1, []Chunk{{NumRigid: 10}, {BaseVertex: 10, NumSoft: 5}}, 15},
		{"three sections over one chunk", 3, []Chunk{{NumSoft: 6}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Legacy{Sections: make([]Section, tt.sections), Chunks: tt.chunks}
			groups, err := Reconcile(g, nil)
			require.NoError(t, err)
			require.Len(t, groups, len(tt.chunks))
			require.NoError(t, CheckCoverage(groups, tt.total))
			for _, grp := range groups {
				assert.Equal(t, -1, grp.MaterialIndex)
			}
			assert.Len(t, Draws(g, nil), tt.sections)
		})
	}
}

func TestReconcileLegacyChunkOrder(t *testing.T) {
	// chunks stored out of vertex order still come out by base vertex
	g := Legacy{
		Sections: []Section{{MaterialIndex: 3}, {MaterialIndex: 4}},
		Chunks:   []Chunk{{BaseVertex: 2, NumSoft: 2}, {BaseVertex: 0, NumSoft: 2}},
	}
	groups, err := Reconcile(g, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, groups[0].Section)
	assert.Equal(t, 4, groups[0].MaterialIndex)
	assert.Equal(t, 3, groups[1].MaterialIndex)
	assert.NoError(t, CheckCoverage(groups, 4))
}

func TestReconcileUnifiedMaterialMap(t *testing.T) {
	g := Unified{Sections: []Section{
		{MaterialIndex: 1, BaseVertex: 5, NumVertices: 3},
		{MaterialIndex: 0, BaseVertex: 0, NumVertices: 5},
		{MaterialIndex: 7, BaseVertex: 8, NumVertices: 1},
	}}
	groups, err := Reconcile(g, []int{2, 0})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 5, 8}, []int{groups[0].BaseVertex, groups[1].BaseVertex, groups[2].BaseVertex})
	assert.Equal(t, 2, groups[0].MaterialIndex)
	assert.Equal(t, 0, groups[1].MaterialIndex)
	assert.Equal(t, 7, groups[2].MaterialIndex, "indices outside the map are kept")
	assert.NoError(t, CheckCoverage(groups, 9))
}

func TestCheckCoverage(t *testing.T) {
	cases := []struct {
		name   string
		groups []Group
		total  int
		ok     bool
	}{
		{"exact", []Group{{BaseVertex: 0, NumVertices: 4}, {BaseVertex: 4, NumVertices: 2}}, 6, true},
		{"empty", nil, 0, true},
		{"gap", []Group{{BaseVertex: 0, NumVertices: 4}, {BaseVertex: 5, NumVertices: 1}}, 6, false},
		{"overlap", []Group{{BaseVertex: 0, NumVertices: 4}, {BaseVertex: 3, NumVertices: 3}}, 6, false},
		{"short", []Group{{BaseVertex: 0, NumVertices: 4}}, 6, false},
		{"long", []Group{{BaseVertex: 0, NumVertices: 7}}, 6, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckCoverage(tc.groups, tc.total)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, mesh.ErrMalformed))
		})
	}
}

func TestDeriveVertexCounts(t *testing.T) {
	u := DeriveVertexCounts(Unified{Sections: []Section{{BaseVertex: 6}, {BaseVertex: 0}}}, 10)
	assert.Equal(t, 4, u.Sections[0].NumVertices)
	assert.Equal(t, 6, u.Sections[1].NumVertices)
}

func TestHasCloth(t *testing.T) {
	assert.False(t, HasCloth(Unified{Sections: []Section{{}}}))
	assert.True(t, HasCloth(Legacy{Chunks: []Chunk{{HasCloth: true}}}))
}
