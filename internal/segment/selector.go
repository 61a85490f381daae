package segment

import (
	"fmt"
	"image"

	"tilseg/pkg/geometry"

	"gocv.io/x/gocv"
)

// MetricsColumns names the columns of a MetricsTable, in order.
var MetricsColumns = []string{"Area", "Perimeter", "Roundness", "Bounding Circle Area"}

// ContourMetrics holds the shape and size measurements of one contour.
type ContourMetrics struct {
	Area               float64 `json:"area"`
	Perimeter          float64 `json:"perimeter"`
	Roundness          float64 `json:"roundness"`
	BoundingCircleArea float64 `json:"bounding_circle_area"`
}

// Values returns the metrics in MetricsColumns order.
func (m ContourMetrics) Values() []float64 {
	return []float64{m.Area, m.Perimeter, m.Roundness, m.BoundingCircleArea}
}

// MetricsTable has one row per accepted contour of the selected cluster.
type MetricsTable struct {
	Columns []string
	Rows    []ContourMetrics
}

// Len returns the number of rows.
func (t MetricsTable) Len() int {
	return len(t.Rows)
}

// Selection is the outcome of immune cluster selection.
type Selection struct {
	// Cluster is the index of the cluster with the most accepted contours.
	Cluster int
	// Counts holds the accepted-contour count of every cluster.
	Counts []int
	// Contours are the selected cluster's accepted contours, in trace order.
	Contours []geometry.Contour
	// Metrics has one row per entry of Contours.
	Metrics MetricsTable
}

// SelectImmuneCluster extracts filtered contours from every cluster mask and
// picks the cluster with the most of them. A later cluster only takes over
// when its count is strictly greater, so ties go to the lowest index.
func SelectImmuneCluster(masks []gocv.Mat, filter FilterParams) (*Selection, error) {
	if len(masks) == 0 {
		return nil, fmt.Errorf("%w: no cluster masks", ErrShape)
	}

	contours := make([][]geometry.Contour, len(masks))
	metrics := make([][]ContourMetrics, len(masks))
	counts := make([]int, len(masks))
	best := 0
	for k, mask := range masks {
		cs, ms, err := traceContours(mask, filter)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", k, err)
		}
		contours[k] = cs
		metrics[k] = ms
		counts[k] = len(cs)
		if counts[k] > counts[best] {
			best = k
		}
	}

	return &Selection{
		Cluster:  best,
		Counts:   counts,
		Contours: contours[best],
		Metrics:  newMetricsTable(metrics[best]),
	}, nil
}

func newMetricsTable(rows []ContourMetrics) MetricsTable {
	return MetricsTable{
		Columns: append([]string(nil), MetricsColumns...),
		Rows:    append(make([]ContourMetrics, 0, len(rows)), rows...),
	}
}

// CompileMetrics measures every contour, preserving order. An empty input
// yields a table with columns and no rows.
func CompileMetrics(contours []geometry.Contour) MetricsTable {
	rows := make([]ContourMetrics, 0, len(contours))
	for _, c := range contours {
		rows = append(rows, MeasureContour(c))
	}
	return newMetricsTable(rows)
}

// MeasureContour computes area, perimeter, roundness and the area of the
// minimal enclosing circle of a contour.
func MeasureContour(c geometry.Contour) ContourMetrics {
	if len(c) == 0 {
		return ContourMetrics{}
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return measure(pv)
}

// measure reads the metrics of a closed contour from OpenCV.
func measure(pv gocv.PointVector) ContourMetrics {
	if pv.Size() == 0 {
		return ContourMetrics{}
	}
	area := gocv.ContourArea(pv)
	perimeter := gocv.ArcLength(pv, true)
	_, _, radius := gocv.MinEnclosingCircle(pv)
	return ContourMetrics{
		Area:               area,
		Perimeter:          perimeter,
		Roundness:          geometry.Roundness(area, perimeter),
		BoundingCircleArea: geometry.Circle{Radius: float64(radius)}.Area(),
	}
}

// EnclosingCircle returns the minimal circle containing every contour point.
func EnclosingCircle(c geometry.Contour) geometry.Circle {
	if len(c) == 0 {
		return geometry.Circle{}
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()

	cx, cy, radius := gocv.MinEnclosingCircle(pv)
	return geometry.Circle{
		Center: geometry.Point2D{X: float64(cx), Y: float64(cy)},
		Radius: float64(radius),
	}
}

// ContourBounds returns the upright bounding box of the contour points.
// Max is exclusive, matching image.Rectangle.
func ContourBounds(c geometry.Contour) image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()
	return gocv.BoundingRect(pv)
}
