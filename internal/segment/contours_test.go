package segment

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestExtractContours_AllZero(t *testing.T) {
	mask := newMask(40, 40)
	defer mask.Close()

	contours, n, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, contours)
}

func TestExtractContours_SingleSquare(t *testing.T) {
	mask := newMask(50, 50)
	defer mask.Close()
	fillRect(mask, 10, 10, 20, 20)

	contours, n, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, contours, 1)

	// Boundary runs through pixel centers, so a 20px block spans 19 units.
	c := contours[0]
	assert.Len(t, c, 76)
	m := MeasureContour(c)
	assert.InDelta(t, 361.0, m.Area, 1e-9)
	assert.InDelta(t, 76.0, m.Perimeter, 1e-9)
	assert.Equal(t, image.Rect(10, 10, 30, 30), ContourBounds(c))
}

func TestExtractContours_FiltersBySize(t *testing.T) {
	mask := newMask(160, 160)
	defer mask.Close()
	fillRect(mask, 5, 5, 20, 20)     // accepted
	fillRect(mask, 40, 5, 4, 4)      // too small
	fillRect(mask, 100, 100, 55, 55) // too large
	fillRect(mask, 5, 150, 90, 4)    // too elongated
	fillRect(mask, 40, 30, 25, 25)   // accepted

	contours, n, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, contours, 2)
	for _, c := range contours {
		assert.True(t, DefaultFilterParams().Accept(c))
	}
}

func TestExtractContours_Deterministic(t *testing.T) {
	mask := newMask(80, 80)
	defer mask.Close()
	fillRect(mask, 5, 5, 20, 20)
	stampCircle(mask, 55, 55, 15)

	first, n1, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)
	second, n2, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	assert.Equal(t, first, second)
}

func TestExtractContours_LeavesMaskUntouched(t *testing.T) {
	mask := newMask(40, 40)
	defer mask.Close()
	fillRect(mask, 10, 10, 20, 20)
	before := maskRows(mask)

	_, _, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)
	assert.Equal(t, before, maskRows(mask))
}

func TestExtractContours_Int32Mask(t *testing.T) {
	mask := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV32SC1)
	defer mask.Close()
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			mask.SetIntAt(y, x, 1)
		}
	}

	_, n, err := ExtractContours(mask, DefaultFilterParams())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExtractContours_ShapeErrors(t *testing.T) {
	t.Run("empty mat", func(t *testing.T) {
		empty := gocv.NewMat()
		defer empty.Close()
		_, _, err := ExtractContours(empty, DefaultFilterParams())
		assert.True(t, errors.Is(err, ErrShape))
	})

	t.Run("three channels", func(t *testing.T) {
		img := gradientImage(10, 10)
		defer img.Close()
		_, _, err := ExtractContours(img, DefaultFilterParams())
		assert.True(t, errors.Is(err, ErrShape))
	})
}
