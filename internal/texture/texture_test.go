package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestResolveNames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "rock", "T_Rock_D.png"), color.NRGBA{R: 200, A: 255})
	writePNG(t, filepath.Join(dir, "Body.png"), color.NRGBA{G: 200, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "body.jpg"), []byte("not an image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len())

	tests := []struct {
		name string
		want string
	}{
		{"M_Rock", "T_Rock_D.png"},
		{"/Game/Env/MI_Rock.MI_Rock", "T_Rock_D.png"},
		{"body", "Body.png"},
		{"Trim", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := idx.ResolvePath(tt.name)
			assert.Equal(t, tt.want != "", ok)
			if ok {
				assert.Equal(t, tt.want, filepath.Base(path))
			}
		})
	}
}

func TestCacheResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "Body.png"), color.NRGBA{G: 200, A: 255})

	c := NewCache(BuildIndex(dir), nil)
	img := c.Resolve("Body")
	require.NotNil(t, img)
	assert.Equal(t, uint8(200), img.Pix[1])
	assert.Same(t, img, c.Resolve("M_Body"))
	assert.Nil(t, c.Resolve("Missing"))
}

func TestBuildIndexEmptyDir(t *testing.T) {
	assert.Zero(t, BuildIndex("").Len())
}
