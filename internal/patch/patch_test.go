package patch

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := imaging.New(w, h, c)
	require.NoError(t, imaging.Save(img, path))
}

func TestLoad_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch_07.png")
	writePNG(t, path, 5, 3, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	p, err := Load(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "patch_07", p.Name)
	assert.Equal(t, path, p.Path)
	assert.Equal(t, 5, p.Width())
	assert.Equal(t, 3, p.Height())
	assert.Equal(t, 3, p.Mat.Rows())
	assert.Equal(t, 5, p.Mat.Cols())
	assert.Equal(t, 3, p.Mat.Channels())

	v := p.Mat.GetVecbAt(2, 4)
	assert.Equal(t, uint8(50), v[0], "blue")
	assert.Equal(t, uint8(100), v[1], "green")
	assert.Equal(t, uint8(200), v[2], "red")
}

func TestLoad_Unreadable(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err := Load(garbage)
	assert.True(t, errors.Is(err, ErrUnreadableImage))

	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.True(t, errors.Is(err, ErrUnreadableImage))
}

func TestToMat_SubImageOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 3, color.NRGBA{R: 9, G: 8, B: 7, A: 255})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	m, err := ToMat(sub)
	require.NoError(t, err)
	defer m.Close()

	require.Equal(t, 2, m.Rows())
	require.Equal(t, 2, m.Cols())
	v := m.GetVecbAt(1, 0)
	assert.Equal(t, [3]uint8{7, 8, 9}, [3]uint8{v[0], v[1], v[2]})
}

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"dir/a.tif", true},
		{"a.webp", true},
		{"a.txt", false},
		{"README", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedFormat(tt.path), tt.path)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.jpg", ".hidden.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.png")}, paths)

	_, err = List(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	assert.Equal(t, "slide.01", Name("/data/slide.01.tif"))
	assert.Equal(t, "x", Name("x"))
}
