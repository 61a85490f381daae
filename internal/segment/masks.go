package segment

import (
	"fmt"

	"tilseg/pkg/colorutil"

	"gocv.io/x/gocv"
)

// ClusterMasks holds the per-cluster artifacts derived from one label map.
// All Mats are owned by ClusterMasks and released by Close.
type ClusterMasks struct {
	// Overlays[k] is the original image with cluster k's pixels painted black.
	Overlays []gocv.Mat
	// Masks[k] is a CV_8UC1 mask, 1 where the label map equals k, else 0.
	Masks []gocv.Mat
	// Combined colors every pixel with the palette entry of its cluster.
	Combined gocv.Mat
}

// K returns the number of clusters.
func (m *ClusterMasks) K() int {
	return len(m.Masks)
}

// Close releases every Mat.
func (m *ClusterMasks) Close() {
	for i := range m.Overlays {
		m.Overlays[i].Close()
	}
	for i := range m.Masks {
		m.Masks[i].Close()
	}
	m.Combined.Close()
}

// ValidateImage checks that img is a non-empty 8-bit, 3-channel (BGR) image.
func ValidateImage(img gocv.Mat) error {
	if img.Empty() {
		return fmt.Errorf("%w: image is empty", ErrShape)
	}
	if img.Channels() != 3 {
		return fmt.Errorf("%w: image has %d channels, want 3", ErrShape, img.Channels())
	}
	if img.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: image type %v, want 8-bit 3-channel", ErrShape, img.Type())
	}
	return nil
}

// BuildClusterMasks splits img by the label map into K overlay images, K
// binary masks and one palette-colored overlay, in a single pass over the
// pixels. img is not modified.
func BuildClusterMasks(labels LabelMap, img gocv.Mat) (*ClusterMasks, error) {
	if err := ValidateImage(img); err != nil {
		return nil, err
	}
	rows, cols := img.Rows(), img.Cols()
	if rows != labels.Rows() || cols != labels.Cols() {
		return nil, fmt.Errorf("%w: image is %dx%d but label map is %dx%d",
			ErrShape, cols, rows, labels.Cols(), labels.Rows())
	}

	k := labels.K()
	if k > colorutil.PaletteSize {
		return nil, fmt.Errorf("%w: label map has %d clusters, palette holds %d",
			ErrTooManyClusters, k, colorutil.PaletteSize)
	}

	palette := make([][3]uint8, k)
	for i := range palette {
		c, err := colorutil.ClusterColor(i)
		if err != nil {
			return nil, err
		}
		palette[i] = colorutil.BGR(c)
	}

	out := &ClusterMasks{
		Overlays: make([]gocv.Mat, k),
		Masks:    make([]gocv.Mat, k),
		Combined: gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3),
	}
	for i := 0; i < k; i++ {
		out.Overlays[i] = img.Clone()
		out.Masks[i] = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	}

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := labels.At(y, x)

			out.Overlays[c].SetUCharAt(y, x*3+0, 0)
			out.Overlays[c].SetUCharAt(y, x*3+1, 0)
			out.Overlays[c].SetUCharAt(y, x*3+2, 0)

			out.Masks[c].SetUCharAt(y, x, 1)

			bgr := palette[c]
			out.Combined.SetUCharAt(y, x*3+0, bgr[0])
			out.Combined.SetUCharAt(y, x*3+1, bgr[1])
			out.Combined.SetUCharAt(y, x*3+2, bgr[2])
		}
	}

	return out, nil
}
