// Package geometry provides the point, contour and circle types shared by the
// segmentation pipeline.
package geometry

import (
	"image"
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is a closed boundary traced around a connected mask region.
// Points are pixel centers in (x=col, y=row) order; the last point connects
// back to the first.
type Contour []image.Point

// Roundness returns perimeter² / (4π·area): 1.0 for a perfect circle,
// larger for irregular shapes. Returns 0 for degenerate contours.
func Roundness(area, perimeter float64) float64 {
	if area == 0 || perimeter == 0 {
		return 0
	}
	return perimeter * perimeter / (4 * math.Pi * area)
}

// Circle is a circle in image coordinates.
type Circle struct {
	Center Point2D `json:"center"`
	Radius float64 `json:"radius"`
}

// Area returns π·r².
func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}
