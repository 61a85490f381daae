// Command contourtest extracts and filters the contours of a binary mask
// image and prints their metrics.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"tilseg/internal/segment"

	"gocv.io/x/gocv"
)

func main() {
	maskPath := flag.String("mask", "", "Path to mask image (any non-zero pixel is foreground)")
	minArea := flag.Float64("min-area", segment.DefaultMinArea, "Minimum contour area (exclusive)")
	maxArea := flag.Float64("max-area", segment.DefaultMaxArea, "Maximum contour area (exclusive)")
	maxRoundness := flag.Float64("max-roundness", segment.DefaultMaxRoundness, "Maximum roundness (exclusive)")
	flag.Parse()

	if *maskPath == "" {
		fmt.Println("Usage: contourtest -mask <path> [-min-area 200] [-max-area 2000] [-max-roundness 3]")
		os.Exit(1)
	}

	img := gocv.IMRead(*maskPath, gocv.IMReadGrayScale)
	if img.Empty() {
		fmt.Fprintf(os.Stderr, "Failed to read mask: %s\n", *maskPath)
		os.Exit(1)
	}
	defer img.Close()
	fmt.Printf("Loaded mask: %dx%d pixels, %d foreground\n", img.Cols(), img.Rows(), gocv.CountNonZero(img))

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(img, &mask, 0, 1, gocv.ThresholdBinary)

	filter := segment.DefaultFilterParams().
		WithAreaRange(*minArea, *maxArea).
		WithMaxRoundness(*maxRoundness)
	fmt.Printf("\nFilter parameters:\n")
	fmt.Printf("  Area: %.0f < a < %.0f\n", filter.MinArea, filter.MaxArea)
	fmt.Printf("  Roundness: 0 < r < %.2f\n", filter.MaxRoundness)

	contours, n, err := segment.ExtractContours(mask, filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Contour extraction failed: %v\n", err)
		os.Exit(1)
	}
	// An unbounded filter still drops zero-area traces.
	_, traced, err := segment.ExtractContours(mask, segment.FilterParams{
		MinArea:      0,
		MaxArea:      math.Inf(1),
		MaxRoundness: math.Inf(1),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Contour extraction failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAccepted %d of %d non-degenerate contours:\n", n, traced)
	fmt.Printf("%-4s %10s %10s %10s %12s %22s %16s\n",
		"#", "Area", "Perimeter", "Roundness", "Circle Area", "Bounds", "Circle Center")
	fmt.Println(strings.Repeat("-", 90))

	for i, c := range contours {
		m := segment.MeasureContour(c)
		b := segment.ContourBounds(c)
		center := segment.EnclosingCircle(c).Center
		fmt.Printf("%-4d %10.1f %10.1f %10.2f %12.1f %22s %16s\n",
			i+1, m.Area, m.Perimeter, m.Roundness, m.BoundingCircleArea,
			b.String(), fmt.Sprintf("(%.1f,%.1f)", center.X, center.Y))
	}
}
