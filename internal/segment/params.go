package segment

// Default geometric thresholds for a TIL nucleus at patch pixel scale.
const (
	DefaultMinArea      = 200.0
	DefaultMaxArea      = 2000.0
	DefaultMaxRoundness = 3.0
)

// FilterParams holds the geometric thresholds a contour must satisfy to be
// counted as a plausible TIL. Area bounds are exclusive.
type FilterParams struct {
	MinArea      float64 `mapstructure:"min_area" yaml:"min_area" json:"min_area"`
	MaxArea      float64 `mapstructure:"max_area" yaml:"max_area" json:"max_area"`
	MaxRoundness float64 `mapstructure:"max_roundness" yaml:"max_roundness" json:"max_roundness"`
}

// DefaultFilterParams returns the default TIL filter thresholds.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		MinArea:      DefaultMinArea,
		MaxArea:      DefaultMaxArea,
		MaxRoundness: DefaultMaxRoundness,
	}
}

// WithAreaRange returns a copy of params with custom exclusive area bounds in pixels².
func (p FilterParams) WithAreaRange(minArea, maxArea float64) FilterParams {
	p.MinArea = minArea
	p.MaxArea = maxArea
	return p
}

// WithMaxRoundness returns a copy of params with a custom roundness ceiling.
func (p FilterParams) WithMaxRoundness(maxRoundness float64) FilterParams {
	p.MaxRoundness = maxRoundness
	return p
}
