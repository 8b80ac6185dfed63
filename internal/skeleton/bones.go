// Package skeleton computes bind pose transforms of a canonical skeleton.
package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/mesh"
)

// LocalRotation returns bone i's rotation relative to its parent. Canonical
// non-root orientations are stored conjugated and are undone here.
func LocalRotation(bones []mesh.Bone, i int) mgl32.Quat {
	q := bones[i].Orientation
	if i > 0 {
		q = q.Conjugate()
	}
	return q.Normalize()
}

// Local returns the parent-space transform of bone i.
func Local(bones []mesh.Bone, i int) mgl32.Mat4 {
	p := bones[i].Position
	return mgl32.Translate3D(p[0], p[1], p[2]).Mul4(LocalRotation(bones, i).Mat4())
}

// BuildWorldMatrices computes the bind pose world transform of each bone.
// Parents always precede their children.
func BuildWorldMatrices(bones []mesh.Bone) []mgl32.Mat4 {
	worlds := make([]mgl32.Mat4, len(bones))
	for i, b := range bones {
		local := Local(bones, i)
		if b.ParentIndex >= 0 && b.ParentIndex < i {
			worlds[i] = worlds[b.ParentIndex].Mul4(local)
		} else {
			worlds[i] = local
		}
	}
	return worlds
}

// InverseBindMatrices returns the inverse of each bone's world transform.
func InverseBindMatrices(bones []mesh.Bone) []mgl32.Mat4 {
	worlds := BuildWorldMatrices(bones)
	for i, w := range worlds {
		worlds[i] = w.Inv()
	}
	return worlds
}

// Children lists the direct children of each bone.
func Children(bones []mesh.Bone) [][]int {
	out := make([][]int, len(bones))
	for i, b := range bones {
		if b.ParentIndex >= 0 && b.ParentIndex < i {
			out[b.ParentIndex] = append(out[b.ParentIndex], i)
		}
	}
	return out
}

// Roots lists the bones without a parent.
func Roots(bones []mesh.Bone) []int {
	var out []int
	for i, b := range bones {
		if b.ParentIndex < 0 || b.ParentIndex >= i {
			out = append(out, i)
		}
	}
	return out
}
