// Package patch loads histology image patches into BGR gocv Mats.
package patch

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/webp"
)

// ErrUnreadableImage reports a file that cannot be decoded as an image.
var ErrUnreadableImage = errors.New("please use an image that can be decoded as JPEG, PNG, TIFF, BMP, GIF or WebP")

// Patch is a decoded image patch.
type Patch struct {
	Path  string      // Original file path
	Name  string      // Base name without extension, used for output directories
	Image image.Image // Decoded image, EXIF orientation applied
	Mat   gocv.Mat    // Same pixels, BGR 8-bit
}

// Load decodes the image at path.
func Load(path string) (*Patch, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty image", ErrUnreadableImage, path)
	}

	mat, err := ToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", path, err)
	}
	return &Patch{
		Path:  path,
		Name:  Name(path),
		Image: img,
		Mat:   mat,
	}, nil
}

// Close releases the Mat.
func (p *Patch) Close() error {
	if p == nil {
		return nil
	}
	return p.Mat.Close()
}

// Width returns the image width in pixels.
func (p *Patch) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (p *Patch) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}

// Name returns the file's base name with the extension stripped.
func Name(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ToMat converts a Go image.Image to an 8-bit gocv.Mat in BGR order.
func ToMat(img image.Image) (gocv.Mat, error) {
	return gocv.ImageToMatRGB(img)
}

// SupportedFormats returns the list of supported image extensions.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg", ".bmp", ".gif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// List returns the supported image files directly inside dir, sorted by name.
// Subdirectories and hidden files are skipped.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read patch directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsSupportedFormat(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
