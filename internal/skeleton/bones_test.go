package skeleton

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"uemesh-converter/internal/mesh"
)

func chain() []mesh.Bone {
	turn := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	return []mesh.Bone{
		{Name: "root", ParentIndex: -1, Orientation: mgl32.QuatIdent()},
		// stored conjugated
		{Name: "spine", ParentIndex: 0, Position: mgl32.Vec3{0, 0, 10}, Orientation: turn.Conjugate()},
		{Name: "head", ParentIndex: 1, Position: mgl32.Vec3{5, 0, 0}, Orientation: mgl32.QuatIdent()},
	}
}

func TestBuildWorldMatrices(t *testing.T) {
	worlds := BuildWorldMatrices(chain())

	head := worlds[2].Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	// spine turns +X into +Y
	assert.InDelta(t, 0, head[0], 1e-5)
	assert.InDelta(t, 5, head[1], 1e-5)
	assert.InDelta(t, 10, head[2], 1e-5)
}

func TestInverseBindMatrices(t *testing.T) {
	bones := chain()
	worlds := BuildWorldMatrices(bones)
	for i, inv := range InverseBindMatrices(bones) {
		assert.True(t, worlds[i].Mul4(inv).ApproxEqualThreshold(mgl32.Ident4(), 1e-5), "bone %d", i)
	}
}

func TestHierarchy(t *testing.T) {
	bones := chain()
	assert.Equal(t, []int{0}, Roots(bones))
	assert.Equal(t, [][]int{{1}, {2}, nil}, Children(bones))
}
