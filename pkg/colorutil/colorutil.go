// Package colorutil provides the cluster visualization palette.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green       = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Blue        = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Cyan        = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	LightRed    = color.RGBA{R: 255, G: 102, B: 102, A: 255}
	LightGreen  = color.RGBA{R: 153, G: 255, B: 51, A: 255}
	LightPurple = color.RGBA{R: 178, G: 102, B: 255, A: 255}
)

// ClusterPalette assigns a fixed color to each cluster index in the combined
// overlay. The first four entries are the original black/red/green/blue table.
var ClusterPalette = []color.RGBA{
	Black,
	Red,
	Green,
	Blue,
	Cyan,
	LightRed,
	LightGreen,
	LightPurple,
}

// PaletteSize is the largest cluster count the combined overlay can render.
var PaletteSize = len(ClusterPalette)

// ClusterColor returns the palette color for cluster k.
func ClusterColor(k int) (color.RGBA, error) {
	if k < 0 || k >= len(ClusterPalette) {
		return color.RGBA{}, fmt.Errorf("cluster %d outside palette of %d colors", k, len(ClusterPalette))
	}
	return ClusterPalette[k], nil
}

// BGR returns the color's channels in OpenCV byte order.
func BGR(c color.RGBA) [3]uint8 {
	return [3]uint8{c.B, c.G, c.R}
}
