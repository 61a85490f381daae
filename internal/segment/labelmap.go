package segment

import "fmt"

// LabelMap is a rows×cols grid of cluster indices, one per pixel, stored
// row-major. It is immutable once built.
type LabelMap struct {
	rows, cols int
	labels     []int
	k          int
}

// NewLabelMap reshapes a flat, row-major label slice into a LabelMap.
// The slice is copied.
func NewLabelMap(labels []int, rows, cols int) (LabelMap, error) {
	if rows <= 0 || cols <= 0 {
		return LabelMap{}, fmt.Errorf("%w: label map must be non-empty, got %dx%d", ErrShape, rows, cols)
	}
	if len(labels) != rows*cols {
		return LabelMap{}, fmt.Errorf("%w: %d labels cannot be reshaped to %dx%d", ErrShape, len(labels), rows, cols)
	}

	m := LabelMap{
		rows:   rows,
		cols:   cols,
		labels: make([]int, len(labels)),
	}
	maxLabel := 0
	for i, l := range labels {
		if l < 0 {
			return LabelMap{}, fmt.Errorf("%w: negative label %d at pixel %d", ErrShape, l, i)
		}
		if l > maxLabel {
			maxLabel = l
		}
		m.labels[i] = l
	}
	m.k = maxLabel + 1
	return m, nil
}

// Rows returns the label map height.
func (m LabelMap) Rows() int { return m.rows }

// Cols returns the label map width.
func (m LabelMap) Cols() int { return m.cols }

// K returns the number of clusters implied by the map: max label + 1.
func (m LabelMap) K() int { return m.k }

// At returns the cluster index of pixel (row, col).
func (m LabelMap) At(row, col int) int {
	return m.labels[row*m.cols+col]
}
