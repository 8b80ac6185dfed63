package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// formats lists the supported extensions; a lower rank wins for the same stem.
var formats = map[string]int{
	".png":  0,
	".tga":  1,
	".bmp":  2,
	".jpg":  3,
	".jpeg": 3,
}

// Index maps lowercase texture stems to filesystem paths.
// Formats with an alpha channel take priority over JPEG and BMP.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir recursively for supported image files.
// An empty dir yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := formats[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank < formats[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// candidates returns the stems tried for a material or texture name, most
// specific first. Object paths ("/Game/Rock/M_Rock.M_Rock") reduce to the
// object name; material prefixes map to the usual texture naming.
func candidates(name string) []string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	stem := strings.ToLower(name)
	if stem == "" {
		return nil
	}

	out := []string{stem}
	base := stem
	for _, prefix := range []string{"mi_", "m_"} {
		if strings.HasPrefix(stem, prefix) {
			base = strings.TrimPrefix(stem, prefix)
			out = append(out, "t_"+base)
			break
		}
	}
	out = append(out, "t_"+base+"_d", base+"_d", base)
	return out
}

// ResolvePath returns the filesystem path for a material or texture name, or
// ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	for _, stem := range candidates(name) {
		if path, ok := idx.entries[stem]; ok {
			return path, true
		}
	}
	return "", false
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
