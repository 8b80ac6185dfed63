package vertex

import (
	"fmt"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/mesh"
)

const (
	// CompactInfluences is the slot count of the compact influence form.
	CompactInfluences = mesh.MaxInfluences
	// ExtendedInfluences is the slot count of the extended influence form.
	ExtendedInfluences = 8
)

// Influences are the compact bone slots and byte weights of one vertex. Bone
// values index the owning group's bone map.
type Influences struct {
	Bones   [CompactInfluences]uint8
	Weights [CompactInfluences]uint8
}

// ReadInfluences reads count bone bytes followed by count weight bytes. Counts
// above CompactInfluences are folded with Redistribute.
func ReadInfluences(r *archive.Reader, count int) Influences {
	if count <= CompactInfluences {
		var in Influences
		for i := 0; i < count; i++ {
			in.Bones[i] = r.U8()
		}
		for i := 0; i < count; i++ {
			in.Weights[i] = r.U8()
		}
		return in
	}
	var bones, weights [ExtendedInfluences]uint8
	for i := 0; i < count; i++ {
		bones[i] = r.U8()
	}
	for i := 0; i < count; i++ {
		weights[i] = r.U8()
	}
	return Redistribute(bones, weights)
}

// Redistribute folds extended influences into the compact slots. When any upper
// slot carries weight, their sum is split evenly over the compact slots by integer
// division and the remainder goes to slot 0. Input is assumed sorted by
// descending weight with a total of at most 255; under that contract no slot
// can overflow. Saturation at 255 only triggers for inputs that break it.
func Redistribute(bones, weights [ExtendedInfluences]uint8) Influences {
	var in Influences
	copy(in.Bones[:], bones[:CompactInfluences])
	copy(in.Weights[:], weights[:CompactInfluences])

	extra := 0
	for _, w := range weights[CompactInfluences:] {
		extra += int(w)
	}
	if extra == 0 {
		return in
	}
	per := extra / CompactInfluences
	sum := [CompactInfluences]int{}
	for i := range sum {
		sum[i] = int(in.Weights[i]) + per
		extra -= per
	}
	sum[0] += extra
	for i, s := range sum {
		if s > mesh.FullWeight {
			s = mesh.FullWeight
		}
		in.Weights[i] = uint8(s)
	}
	return in
}

// Resolve writes the influences to v, translating compact bone slots through
// boneMap. Zero-weight slots are skipped without ending the scan; unused
// canonical slots are set to mesh.NoBone.
func (in Influences) Resolve(boneMap []uint16, v *mesh.Vertex) error {
	v.ClearInfluences()
	n := 0
	for i, w := range in.Weights {
		if w == 0 {
			continue
		}
		slot := int(in.Bones[i])
		if slot >= len(boneMap) {
			return fmt.Errorf("%w: bone slot %d outside bone map of %d", mesh.ErrMalformed, slot, len(boneMap))
		}
		v.Bones[n] = int16(boneMap[slot])
		v.Weights[n] = w
		n++
	}
	return nil
}
