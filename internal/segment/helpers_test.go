package segment

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// labelMapFromRows builds a LabelMap from a literal grid.
func labelMapFromRows(t *testing.T, grid [][]int) LabelMap {
	t.Helper()
	rows, cols := len(grid), len(grid[0])
	flat := make([]int, 0, rows*cols)
	for _, row := range grid {
		require.Len(t, row, cols)
		flat = append(flat, row...)
	}
	m, err := NewLabelMap(flat, rows, cols)
	require.NoError(t, err)
	return m
}

// gradientImage returns a BGR image whose pixel values depend on position so
// overlays can be checked against the original.
func gradientImage(rows, cols int) gocv.Mat {
	img := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetUCharAt(y, x*3+0, uint8(10+x%200))
			img.SetUCharAt(y, x*3+1, uint8(20+y%200))
			img.SetUCharAt(y, x*3+2, uint8(30+(x+y)%200))
		}
	}
	return img
}

// newMask returns an all-zero CV_8UC1 mask.
func newMask(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
}

// fillRect sets a w×h block of mask pixels to 1.
func fillRect(mask gocv.Mat, x0, y0, w, h int) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			mask.SetUCharAt(y, x, 1)
		}
	}
}

// stampCircle sets every pixel within radius of (cx, cy) to 1.
func stampCircle(mask gocv.Mat, cx, cy, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				mask.SetUCharAt(cy+dy, cx+dx, 1)
			}
		}
	}
}

// maskRows reads a single-channel mask back into a grid.
func maskRows(mask gocv.Mat) [][]uint8 {
	out := make([][]uint8, mask.Rows())
	for y := range out {
		out[y] = make([]uint8, mask.Cols())
		for x := range out[y] {
			out[y][x] = mask.GetUCharAt(y, x)
		}
	}
	return out
}
