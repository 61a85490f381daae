package cluster

import (
	"errors"
	"testing"

	"tilseg/internal/segment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// twoToneImage returns a rows×cols BGR image whose left half is dark purple
// and right half light pink, roughly the nuclei/stroma split of an H&E patch.
func twoToneImage(rows, cols int) gocv.Mat {
	img := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			bgr := [3]uint8{120, 40, 70}
			if x >= cols/2 {
				bgr = [3]uint8{220, 190, 240}
			}
			for ch := 0; ch < 3; ch++ {
				img.SetUCharAt(y, x*3+ch, bgr[ch])
			}
		}
	}
	return img
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.NoError(t, DefaultParams().WithClusters(MaxClusters).Validate())

	upper := DefaultParams()
	upper.Algorithm = "KMeans"
	require.NoError(t, upper.Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"unknown algorithm", func(p *Params) { p.Algorithm = "dbscan" }},
		{"zero clusters", func(p *Params) { p.Clusters = 0 }},
		{"too many clusters", func(p *Params) { p.Clusters = MaxClusters + 1 }},
		{"zero iterations", func(p *Params) { p.MaxIter = 0 }},
		{"zero attempts", func(p *Params) { p.Attempts = 0 }},
		{"zero epsilon", func(p *Params) { p.Epsilon = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.True(t, errors.Is(p.Validate(), ErrInvalidParams))
		})
	}
}

func TestFitPredict_TwoTones(t *testing.T) {
	img := twoToneImage(12, 16)
	defer img.Close()

	model, err := Fit(img, DefaultParams().WithClusters(2))
	require.NoError(t, err)
	require.True(t, model.Fitted())
	assert.Equal(t, 2, model.K())

	labels, err := model.Predict(img)
	require.NoError(t, err)
	require.Len(t, labels, 12*16)

	left, right := labels[0], labels[15]
	assert.NotEqual(t, left, right)
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			want := left
			if x >= 8 {
				want = right
			}
			assert.Equal(t, want, labels[y*16+x], "pixel (%d,%d)", y, x)
		}
	}

	lm, err := segment.NewLabelMap(labels, img.Rows(), img.Cols())
	require.NoError(t, err)
	assert.Equal(t, 2, lm.K())
}

func TestFit_CentersAreNormalizedRGB(t *testing.T) {
	img := twoToneImage(4, 4)
	defer img.Close()

	model, err := Fit(img, DefaultParams().WithClusters(2))
	require.NoError(t, err)

	want := map[[3]int]bool{
		{70, 40, 120}:   false,
		{240, 190, 220}: false,
	}
	for _, c := range model.Centers {
		key := [3]int{int(c[0]*255 + 0.5), int(c[1]*255 + 0.5), int(c[2]*255 + 0.5)}
		_, ok := want[key]
		assert.True(t, ok, "unexpected center %v", key)
		want[key] = true
	}
	for k, seen := range want {
		assert.True(t, seen, "missing center %v", k)
	}
}

func TestFit_Errors(t *testing.T) {
	img := twoToneImage(2, 2)
	defer img.Close()

	_, err := Fit(img, DefaultParams().WithClusters(9))
	assert.True(t, errors.Is(err, ErrInvalidParams))

	_, err = Fit(img, DefaultParams().WithClusters(5))
	assert.True(t, errors.Is(err, ErrInvalidParams), "more clusters than pixels")

	gray := gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1)
	defer gray.Close()
	_, err = Fit(gray, DefaultParams())
	assert.True(t, errors.Is(err, segment.ErrShape))
}

func TestPredict_Unfitted(t *testing.T) {
	img := twoToneImage(2, 2)
	defer img.Close()

	var nilModel *Model
	_, err := nilModel.Predict(img)
	assert.True(t, errors.Is(err, ErrUnfittedModel))

	_, err = (&Model{}).Predict(img)
	assert.True(t, errors.Is(err, ErrUnfittedModel))
	assert.Zero(t, nilModel.K())
}

func TestNearest_TieGoesToLowerIndex(t *testing.T) {
	m := &Model{Centers: [][3]float32{{0, 0, 0}, {1, 0, 0}}}
	assert.Equal(t, 0, m.nearest([3]float32{0.5, 0, 0}))
	assert.Equal(t, 1, m.nearest([3]float32{0.9, 0, 0}))
}
