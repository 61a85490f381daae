// Package cluster fits KMeans models on the normalized RGB pixels of a patch,
// predicts per-pixel cluster labels, and scores a clustering.
package cluster

import (
	"errors"
	"fmt"
	"strings"
)

// Algorithm names a clustering algorithm.
type Algorithm string

// AlgorithmKMeans is the only supported algorithm.
const AlgorithmKMeans Algorithm = "kmeans"

// MaxClusters is the largest cluster count a model may be fitted with.
const MaxClusters = 8

var (
	// ErrInvalidParams reports unusable fit parameters.
	ErrInvalidParams = errors.New("invalid clustering parameters")

	// ErrUnfittedModel reports use of a model before it was fitted.
	ErrUnfittedModel = errors.New("model is not fitted")

	// ErrInvalidLabels reports labels that cannot be scored.
	ErrInvalidLabels = errors.New("invalid labels")
)

// Params configures model fitting.
type Params struct {
	Algorithm Algorithm `mapstructure:"algorithm" yaml:"algorithm" json:"algorithm"`
	Clusters  int       `mapstructure:"clusters" yaml:"clusters" json:"clusters"`
	MaxIter   int       `mapstructure:"max_iter" yaml:"max_iter" json:"max_iter"`
	Attempts  int       `mapstructure:"attempts" yaml:"attempts" json:"attempts"`
	Epsilon   float64   `mapstructure:"epsilon" yaml:"epsilon" json:"epsilon"`
	Seed      int       `mapstructure:"seed" yaml:"seed" json:"seed"`
}

// DefaultParams returns KMeans parameters tuned for H&E patches:
// few iterations, three restarts, loose tolerance.
func DefaultParams() Params {
	return Params{
		Algorithm: AlgorithmKMeans,
		Clusters:  4,
		MaxIter:   20,
		Attempts:  3,
		Epsilon:   1e-3,
		Seed:      42,
	}
}

// WithClusters returns a copy of params with a different cluster count.
func (p Params) WithClusters(k int) Params {
	p.Clusters = k
	return p
}

// Validate checks that the parameters describe a model Fit can build.
func (p Params) Validate() error {
	if Algorithm(strings.ToLower(string(p.Algorithm))) != AlgorithmKMeans {
		return fmt.Errorf("%w: unknown algorithm %q (valid: %s)", ErrInvalidParams, p.Algorithm, AlgorithmKMeans)
	}
	if p.Clusters < 1 || p.Clusters > MaxClusters {
		return fmt.Errorf("%w: clusters must be between 1 and %d, got %d", ErrInvalidParams, MaxClusters, p.Clusters)
	}
	if p.MaxIter < 1 {
		return fmt.Errorf("%w: max_iter must be positive, got %d", ErrInvalidParams, p.MaxIter)
	}
	if p.Attempts < 1 {
		return fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidParams, p.Attempts)
	}
	if p.Epsilon <= 0 {
		return fmt.Errorf("%w: epsilon must be positive, got %g", ErrInvalidParams, p.Epsilon)
	}
	return nil
}
