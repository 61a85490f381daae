package segment

import (
	"fmt"

	"tilseg/pkg/geometry"

	"gocv.io/x/gocv"
)

// ExtractContours traces the boundaries of the foreground regions of a {0,1}
// mask and returns the ones accepted by the filter, in trace order, together
// with their count.
//
// Boundaries come from OpenCV's flood-fill retrieval mode on 8-connected
// regions with every boundary point kept.
func ExtractContours(mask gocv.Mat, filter FilterParams) ([]geometry.Contour, int, error) {
	contours, _, err := traceContours(mask, filter)
	if err != nil {
		return nil, 0, err
	}
	return contours, len(contours), nil
}

// traceContours returns the accepted contours and their metrics, measured
// once on the native point vectors.
func traceContours(mask gocv.Mat, filter FilterParams) ([]geometry.Contour, []ContourMetrics, error) {
	if mask.Empty() {
		return nil, nil, fmt.Errorf("%w: empty mask", ErrShape)
	}
	if mask.Channels() != 1 {
		return nil, nil, fmt.Errorf("%w: mask has %d channels, want 1", ErrShape, mask.Channels())
	}

	// Flood-fill retrieval only accepts 32-bit signed label images.
	labels := gocv.NewMat()
	defer labels.Close()
	mask.ConvertTo(&labels, gocv.MatTypeCV32SC1)

	raw := gocv.FindContours(labels, gocv.RetrievalFloodfill, gocv.ChainApproxNone)
	defer raw.Close()

	var (
		accepted []geometry.Contour
		metrics  []ContourMetrics
	)
	for i := 0; i < raw.Size(); i++ {
		pv := raw.At(i)
		m := measure(pv)
		if !filter.AcceptMetrics(m) {
			continue
		}
		accepted = append(accepted, geometry.Contour(pv.ToPoints()))
		metrics = append(metrics, m)
	}
	return accepted, metrics, nil
}
