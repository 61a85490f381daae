package cluster

import (
	"fmt"
	"math"
	"sort"

	"tilseg/internal/segment"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ScoreOptions selects which clustering scores to compute. Silhouette is
// quadratic in the pixel count and off by default.
type ScoreOptions struct {
	Silhouette       bool `mapstructure:"silhouette" yaml:"silhouette" json:"silhouette"`
	CalinskiHarabasz bool `mapstructure:"calinski_harabasz" yaml:"calinski_harabasz" json:"calinski_harabasz"`
	DaviesBouldin    bool `mapstructure:"davies_bouldin" yaml:"davies_bouldin" json:"davies_bouldin"`
}

// DefaultScoreOptions enables Calinski-Harabasz and Davies-Bouldin.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{CalinskiHarabasz: true, DaviesBouldin: true}
}

// Scores holds the requested clustering scores; unrequested ones are nil.
type Scores struct {
	// Silhouette ranges over [-1, 1]; higher is better.
	Silhouette *float64 `json:"silhouette,omitempty"`
	// CalinskiHarabasz has no upper bound; higher means denser, better separated clusters.
	CalinskiHarabasz *float64 `json:"calinski_harabasz,omitempty"`
	// DaviesBouldin is zero at best; lower is better.
	DaviesBouldin *float64 `json:"davies_bouldin,omitempty"`
}

// Score evaluates a labeling of img's pixels using raw 0-255 RGB values.
func Score(img gocv.Mat, labels []int, opts ScoreOptions) (Scores, error) {
	if err := segment.ValidateImage(img); err != nil {
		return Scores{}, err
	}
	return ScoreSamples(rgbSamples(img), labels, opts)
}

// ScoreSamples evaluates a labeling of the rows of x.
func ScoreSamples(x *mat.Dense, labels []int, opts ScoreOptions) (Scores, error) {
	s, err := newSampleSet(x, labels)
	if err != nil {
		return Scores{}, err
	}

	var out Scores
	if opts.Silhouette {
		v := s.silhouette()
		out.Silhouette = &v
	}
	if opts.CalinskiHarabasz {
		v := s.calinskiHarabasz()
		out.CalinskiHarabasz = &v
	}
	if opts.DaviesBouldin {
		v := s.daviesBouldin()
		out.DaviesBouldin = &v
	}
	return out, nil
}

// sampleSet is a labeled sample matrix with labels re-encoded to 0..k-1.
type sampleSet struct {
	x         *mat.Dense
	labels    []int
	k         int
	sizes     []int
	centroids [][]float64
	mean      []float64
}

func newSampleSet(x *mat.Dense, labels []int) (*sampleSet, error) {
	n, dim := x.Dims()
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrInvalidLabels, len(labels), n)
	}

	distinct := make(map[int]struct{})
	for _, l := range labels {
		distinct[l] = struct{}{}
	}
	keys := make([]int, 0, len(distinct))
	for l := range distinct {
		keys = append(keys, l)
	}
	sort.Ints(keys)
	k := len(keys)
	if k < 2 || k > n-1 {
		return nil, fmt.Errorf("%w: %d distinct labels, valid values are 2 to %d", ErrInvalidLabels, k, n-1)
	}
	index := make(map[int]int, k)
	for i, l := range keys {
		index[l] = i
	}

	s := &sampleSet{
		x:         x,
		labels:    make([]int, n),
		k:         k,
		sizes:     make([]int, k),
		centroids: make([][]float64, k),
		mean:      make([]float64, dim),
	}
	for c := range s.centroids {
		s.centroids[c] = make([]float64, dim)
	}
	for i, l := range labels {
		c := index[l]
		s.labels[i] = c
		s.sizes[c]++
		row := x.RawRowView(i)
		floats.Add(s.centroids[c], row)
		floats.Add(s.mean, row)
	}
	for c := range s.centroids {
		floats.Scale(1/float64(s.sizes[c]), s.centroids[c])
	}
	floats.Scale(1/float64(n), s.mean)
	return s, nil
}

// calinskiHarabasz is the ratio of between-cluster to within-cluster
// dispersion, each normalized by its degrees of freedom.
func (s *sampleSet) calinskiHarabasz() float64 {
	n, _ := s.x.Dims()
	var extra, intra float64
	for c, centroid := range s.centroids {
		d := floats.Distance(centroid, s.mean, 2)
		extra += float64(s.sizes[c]) * d * d
	}
	for i, c := range s.labels {
		d := floats.Distance(s.x.RawRowView(i), s.centroids[c], 2)
		intra += d * d
	}
	if intra == 0 {
		return 1
	}
	return extra * float64(n-s.k) / (intra * float64(s.k-1))
}

// daviesBouldin averages, over clusters, the worst ratio of summed
// intra-cluster spread to centroid separation.
func (s *sampleSet) daviesBouldin() float64 {
	spread := make([]float64, s.k)
	for i, c := range s.labels {
		spread[c] += floats.Distance(s.x.RawRowView(i), s.centroids[c], 2)
	}
	for c := range spread {
		spread[c] /= float64(s.sizes[c])
	}

	var total float64
	for i := 0; i < s.k; i++ {
		worst := 0.0
		for j := 0; j < s.k; j++ {
			if i == j {
				continue
			}
			sep := floats.Distance(s.centroids[i], s.centroids[j], 2)
			if sep == 0 {
				continue
			}
			worst = math.Max(worst, (spread[i]+spread[j])/sep)
		}
		total += worst
	}
	return total / float64(s.k)
}

// silhouette averages (b-a)/max(a,b) over samples, where a is the mean
// distance to the sample's own cluster and b the smallest mean distance to
// another cluster. Samples alone in their cluster score 0.
func (s *sampleSet) silhouette() float64 {
	n, _ := s.x.Dims()
	sums := make([]float64, s.k)
	var total float64
	for i := 0; i < n; i++ {
		for c := range sums {
			sums[c] = 0
		}
		xi := s.x.RawRowView(i)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sums[s.labels[j]] += floats.Distance(xi, s.x.RawRowView(j), 2)
		}

		own := s.labels[i]
		if s.sizes[own] == 1 {
			continue
		}
		a := sums[own] / float64(s.sizes[own]-1)
		b := math.Inf(1)
		for c := range sums {
			if c == own {
				continue
			}
			b = math.Min(b, sums[c]/float64(s.sizes[c]))
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

// rgbSamples flattens img into an (h*w)x3 matrix of raw RGB values.
func rgbSamples(img gocv.Mat) *mat.Dense {
	h, w := img.Rows(), img.Cols()
	x := mat.NewDense(h*w, 3, nil)
	for y := 0; y < h; y++ {
		for col := 0; col < w; col++ {
			v := img.GetVecbAt(y, col)
			x.SetRow(y*w+col, []float64{float64(v[2]), float64(v[1]), float64(v[0])})
		}
	}
	return x
}
