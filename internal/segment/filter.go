package segment

import "tilseg/pkg/geometry"

// Accept reports whether the contour looks like a TIL nucleus: its area lies
// strictly between MinArea and MaxArea and its roundness is below
// MaxRoundness. Contours with zero area or zero perimeter are rejected.
func (p FilterParams) Accept(c geometry.Contour) bool {
	return p.AcceptMetrics(MeasureContour(c))
}

// AcceptMetrics applies the same test to already measured contour metrics.
func (p FilterParams) AcceptMetrics(m ContourMetrics) bool {
	if m.Area == 0 || m.Perimeter == 0 {
		return false
	}
	return m.Area > p.MinArea && m.Area < p.MaxArea && m.Roundness < p.MaxRoundness
}
