package asset

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uemesh-converter/internal/archive/archivetest"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

const sidecarYAML = `
class: StaticMesh
payload: rock.bin
format_version: 508
custom_versions:
  EditorObject: 8
  RenderingObject: 10
filter_editor_only: true
names: [None, Rock]
properties:
  materials: [-3]
`

// editorlessStatic is a static mesh body with no cooked data and no source models.
func editorlessStatic() []byte {
	w := archivetest.NewWriter()
	w.Strip(version.StripEditor, 0)
	w.Bool(false)
	w.I32(0).I32(0)
	w.Guid()
	w.Count(0)
	w.Bool(false)
	w.Count(1).I32(-9).Name(1, 0).Bool(false).Bool(false).F32(0).F32(0).F32(0).F32(0)
	// padding keeps the body compressible
	w.Raw(make([]byte, 256))
	return w.Bytes()
}

func writeExport(t *testing.T, doc string, payload []byte) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rock.bin"), payload, 0o644))
	path := filepath.Join(dir, "SM_Rock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestParseSidecar(t *testing.T) {
	s, err := ParseSidecar([]byte(sidecarYAML))
	require.NoError(t, err)
	assert.Equal(t, ClassStaticMesh, s.Class)
	assert.Equal(t, []int32{-3}, s.Properties.Materials)

	ctx := s.Context()
	assert.Equal(t, 508, ctx.FormatVersion)
	assert.Equal(t, version.RefactorMeshEditorMaterials, ctx.Custom(version.EditorObject))
	assert.False(t, ctx.ContainsEditorData())
}

func TestParseSidecarRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no payload", "class: StaticMesh\nformat_version: 508\n"},
		{"old package", "class: StaticMesh\npayload: a.bin\nformat_version: 100\n"},
		{"bad compression", "class: StaticMesh\npayload: a.bin\nformat_version: 508\ncompression: zip\n"},
		{"not yaml", "class: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSidecar([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestConvertStatic(t *testing.T) {
	path := writeExport(t, sidecarYAML, editorlessStatic())
	m, err := Convert(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "SM_Rock", m.Name)
	assert.Equal(t, mesh.Static, m.Kind)
	assert.Equal(t, []mesh.Material{{SlotName: "Rock", Ref: -9}}, m.Materials)
	assert.Empty(t, m.Lods)
	require.Len(t, m.Warnings, 1)
	assert.Equal(t, mesh.WarnMissingData, m.Warnings[0].Kind)
}

func TestConvertLZ4Payload(t *testing.T) {
	body := editorlessStatic()
	packed := make([]byte, lz4.CompressBlockBound(len(body)))
	n, err := lz4.CompressBlock(body, packed, nil)
	require.NoError(t, err)
	require.Positive(t, n)

	doc := sidecarYAML + "compression: lz4\nuncompressed_size: " + strconv.Itoa(len(body)) + "\n"
	e, err := Load(writeExport(t, doc, packed[:n]))
	require.NoError(t, err)
	assert.Equal(t, body, e.Data)

	_, err = e.Convert(Options{})
	require.NoError(t, err)
}

func TestConvertUnknownClass(t *testing.T) {
	doc := "class: Texture2D\npayload: rock.bin\nformat_version: 508\n"
	_, err := Convert(writeExport(t, doc, []byte{0}), Options{})
	assert.True(t, errors.Is(err, ErrUnknownClass))
}

func TestConvertMissingPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SM_Rock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sidecarYAML), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
