package cluster

import (
	"fmt"
	"math"

	"tilseg/internal/segment"

	"gocv.io/x/gocv"
)

// Model is a fitted KMeans model. Centers are in normalized RGB space.
type Model struct {
	Params      Params
	Centers     [][3]float32
	Compactness float64
}

// Fit clusters the normalized RGB pixels of img (BGR, 8-bit, 3 channels).
func Fit(img gocv.Mat, params Params) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := segment.ValidateImage(img); err != nil {
		return nil, err
	}

	pixels := normalizedPixels(img)
	defer pixels.Close()

	if pixels.Rows() < params.Clusters {
		return nil, fmt.Errorf("%w: %d pixels cannot form %d clusters", ErrInvalidParams, pixels.Rows(), params.Clusters)
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	gocv.SetRNGSeed(params.Seed)
	criteria := gocv.NewTermCriteria(gocv.EPS+gocv.MaxIter, params.MaxIter, params.Epsilon)
	compactness := gocv.KMeans(pixels, params.Clusters, &labels, criteria, params.Attempts, gocv.KMeansPPCenters, &centers)

	m := &Model{
		Params:      params,
		Centers:     make([][3]float32, params.Clusters),
		Compactness: compactness,
	}
	for i := 0; i < params.Clusters; i++ {
		m.Centers[i] = [3]float32{
			centers.GetFloatAt(i, 0),
			centers.GetFloatAt(i, 1),
			centers.GetFloatAt(i, 2),
		}
	}
	return m, nil
}

// Fitted reports whether the model has cluster centers.
func (m *Model) Fitted() bool {
	return m != nil && len(m.Centers) > 0
}

// K returns the number of clusters.
func (m *Model) K() int {
	if m == nil {
		return 0
	}
	return len(m.Centers)
}

// Predict assigns every pixel of img to its nearest center. Labels are
// returned row-major, one per pixel.
func (m *Model) Predict(img gocv.Mat) ([]int, error) {
	if !m.Fitted() {
		return nil, fmt.Errorf("%w: fit the model with cluster.Fit before predicting", ErrUnfittedModel)
	}
	if err := segment.ValidateImage(img); err != nil {
		return nil, err
	}

	rows, cols := img.Rows(), img.Cols()
	labels := make([]int, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			labels[y*cols+x] = m.nearest(normalizedRGB(img.GetVecbAt(y, x)))
		}
	}
	return labels, nil
}

// nearest returns the index of the closest center; ties go to the lower index.
func (m *Model) nearest(px [3]float32) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range m.Centers {
		var d float64
		for ch := 0; ch < 3; ch++ {
			diff := float64(px[ch] - c[ch])
			d += diff * diff
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// normalizedRGB converts a BGR pixel to RGB scaled into [0,1].
func normalizedRGB(v gocv.Vecb) [3]float32 {
	return [3]float32{
		float32(v[2]) / 255,
		float32(v[1]) / 255,
		float32(v[0]) / 255,
	}
}

// normalizedPixels reshapes img into an (h*w)x3 CV_32F matrix of normalized
// RGB values, the layout gocv.KMeans expects.
func normalizedPixels(img gocv.Mat) gocv.Mat {
	h, w := img.Rows(), img.Cols()
	pixels := gocv.NewMatWithSize(h*w, 3, gocv.MatTypeCV32F)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			px := normalizedRGB(img.GetVecbAt(y, x))
			pixels.SetFloatAt(idx, 0, px[0])
			pixels.SetFloatAt(idx, 1, px[1])
			pixels.SetFloatAt(idx, 2, px[2])
		}
	}
	return pixels
}
