package skeletal

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
	"uemesh-converter/internal/vertex"
)

// SkinBuffer is the GPU skin vertex buffer of a LOD.
type SkinBuffer struct {
	Format        vertex.BufferFormat
	MeshExtension mgl32.Vec3
	MeshOrigin    mgl32.Vec3
	Verts         []vertex.SkinVertex
}

func readSkinBuffer(r *archive.Reader) (SkinBuffer, error) {
	var b SkinBuffer
	r.StripFlagsIf(version.GateVertexBufferStripFlags)
	b.Format.NumTexCoords = int(r.I32())
	b.Format.UVs = vertex.PrecisionFor(r.Bool())
	b.Format.NumInfluences = vertex.CompactInfluences
	if r.Active(version.GateGPUSkinExtraInfluences, version.StripFlags{}) && r.Bool() {
		b.Format.NumInfluences = vertex.ExtendedInfluences
	}
	b.MeshExtension = r.Vec3()
	b.MeshOrigin = r.Vec3()
	if err := r.Err(); err != nil {
		return b, err
	}
	if err := b.Format.Validate(); err != nil {
		return b, err
	}
	f := b.Format
	b.Verts = archive.BulkArray(r, func(r *archive.Reader) vertex.SkinVertex {
		return vertex.ReadSkinVertex(r, f)
	})
	return b, r.Err()
}

func readColorBuffer(r *archive.Reader) ([][4]uint8, bool) {
	strip := r.StripFlagsIf(version.GateVertexBufferStripFlags)
	if !r.Active(version.GateColorBufferData, strip) {
		return nil, false
	}
	return archive.BulkArray(r, (*archive.Reader).Color), true
}

// skipClothBuffer reads and drops the cloth vertex buffer, returning the number
// of dropped entries.
func skipClothBuffer(r *archive.Reader) int {
	strip := r.StripFlagsIf(version.GateVertexBufferStripFlags)
	if strip.IsDataStrippedForServer() {
		return 0
	}
	return archive.SkipBulkArray(r)
}

// checkTexCoords rejects LODs with more UV sets than the canonical vertex holds.
func checkTexCoords(n int) error {
	if n < 0 || n > mesh.MaxUVSets {
		return fmt.Errorf("%w: %d UV sets, at most %d supported", mesh.ErrTooManyUVSets, n, mesh.MaxUVSets)
	}
	return nil
}
