package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"uemesh-converter/internal/mesh"
	"uemesh-converter/internal/postprocess"
	"uemesh-converter/internal/raster"
)

// WritePreview renders one LOD of m and saves it as a lossless WebP image.
func WritePreview(m *mesh.Mesh, lod int, path string, opts raster.Options) error {
	img, err := raster.Render(m, lod, opts)
	if err != nil {
		return err
	}
	if opts.Supersample > 1 {
		img = postprocess.Downsample(img, opts.Size, opts.Size)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("batch: webp encode %s: %w", path, err)
	}
	return f.Close()
}
