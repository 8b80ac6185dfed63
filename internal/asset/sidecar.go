// Package asset loads exported mesh objects: a YAML sidecar describing what the
// package loader resolved (class, versions, name table, tagged properties) next
// to the raw export body.
package asset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"

	"uemesh-converter/internal/archive"
	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/version"
)

// Class is the object class of an export.
type Class string

const (
	ClassSkeletalMesh Class = "SkeletalMesh"
	ClassStaticMesh   Class = "StaticMesh"
)

// Payload compression schemes.
const (
	CompressionNone = "none"
	CompressionLZ4  = "lz4"
)

// Sidecar describes one export body.
type Sidecar struct {
	Class            Class          `yaml:"class"`
	Name             string         `yaml:"name"`
	Payload          string         `yaml:"payload"`
	Compression      string         `yaml:"compression"`
	UncompressedSize int            `yaml:"uncompressed_size"`
	BigEndian        bool           `yaml:"big_endian"`
	FormatVersion    int            `yaml:"format_version"`
	LicenseeVersion  int            `yaml:"licensee_version"`
	CustomVersions   map[string]int `yaml:"custom_versions"`
	FilterEditorOnly bool           `yaml:"filter_editor_only"`
	Names            []string       `yaml:"names"`
	Properties       Properties     `yaml:"properties"`
}

// Properties are the tagged properties the decoders need.
type Properties struct {
	HasVertexColors bool          `yaml:"has_vertex_colors"`
	LODMaterialMaps [][]int       `yaml:"lod_material_maps"`
	Materials       []int32       `yaml:"materials"`
	SourceModels    []BuildConfig `yaml:"source_models"`
}

// BuildConfig is the build settings block of one static source model.
type BuildConfig struct {
	RecomputeNormals  bool `yaml:"recompute_normals"`
	RecomputeTangents bool `yaml:"recompute_tangents"`
}

// ParseSidecar decodes and checks a sidecar document.
func ParseSidecar(data []byte) (*Sidecar, error) {
	var s Sidecar
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("asset: parse sidecar: %w", err)
	}
	if s.Payload == "" {
		return nil, fmt.Errorf("asset: sidecar for %q names no payload", s.Name)
	}
	if s.FormatVersion < version.OldestLoadablePackage {
		return nil, fmt.Errorf("asset: %w: format version %d", mesh.ErrUnsupported, s.FormatVersion)
	}
	switch s.Compression {
	case "", CompressionNone, CompressionLZ4:
	default:
		return nil, fmt.Errorf("asset: unknown compression %q", s.Compression)
	}
	return &s, nil
}

// Context returns the version context described by the sidecar.
func (s *Sidecar) Context() version.Context {
	ctx := version.Context{
		FormatVersion:    s.FormatVersion,
		LicenseeVersion:  s.LicenseeVersion,
		FilterEditorOnly: s.FilterEditorOnly,
		CustomVersions:   make(map[version.Domain]int, len(s.CustomVersions)),
	}
	for k, v := range s.CustomVersions {
		ctx.CustomVersions[version.Domain(k)] = v
	}
	return ctx
}

// decodePayload expands the stored payload bytes.
func (s *Sidecar) decodePayload(data []byte) ([]byte, error) {
	if s.Compression != CompressionLZ4 {
		return data, nil
	}
	if s.UncompressedSize <= 0 {
		return nil, fmt.Errorf("asset: lz4 payload of %q has no uncompressed size", s.Name)
	}
	out := make([]byte, s.UncompressedSize)
	n, err := lz4.UncompressBlock(data, out)
	if err != nil {
		return nil, fmt.Errorf("asset: lz4 payload of %q: %w", s.Name, err)
	}
	if n != s.UncompressedSize {
		return nil, fmt.Errorf("asset: lz4 payload of %q expanded to %d bytes, expected %d", s.Name, n, s.UncompressedSize)
	}
	return out, nil
}

// Export is a loaded export body ready for decoding.
type Export struct {
	Sidecar
	Path string
	Data []byte
}

// Load reads a sidecar and its payload. The payload path is relative to the sidecar.
func Load(path string) (*Export, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("asset: read %s: %w", path, err)
	}
	s, err := ParseSidecar(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = trimExt(filepath.Base(path))
	}
	payload := s.Payload
	if !filepath.IsAbs(payload) {
		payload = filepath.Join(filepath.Dir(path), payload)
	}
	raw, err := os.ReadFile(payload)
	if err != nil {
		return nil, fmt.Errorf("asset: read payload: %w", err)
	}
	data, err := s.decodePayload(raw)
	if err != nil {
		return nil, err
	}
	return &Export{Sidecar: *s, Path: path, Data: data}, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

// Reader returns a fresh reader over the export body.
func (e *Export) Reader() *archive.Reader {
	r := archive.NewReader(e.Data, e.Context())
	r.SetReverseBytes(e.BigEndian)
	r.SetNames(e.Names)
	return r
}
