package segment

import "errors"

var (
	// ErrShape reports an image, mask or label map whose dimensions or channel
	// layout the pipeline cannot process.
	ErrShape = errors.New("invalid shape")

	// ErrTooManyClusters reports a label map with more clusters than the
	// combined overlay palette can color.
	ErrTooManyClusters = errors.New("too many clusters")
)
