package segment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLabelMap(t *testing.T) {
	flat := []int{0, 0, 1, 1, 2, 0}
	m, err := NewLabelMap(flat, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 3, m.K())
	assert.Equal(t, 1, m.At(1, 0))
	assert.Equal(t, 2, m.At(1, 1))

	flat[0] = 5
	assert.Equal(t, 0, m.At(0, 0), "label map must not alias its input")
}

func TestNewLabelMap_SingleCluster(t *testing.T) {
	m, err := NewLabelMap([]int{0, 0, 0, 0}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, m.K())
}

func TestNewLabelMap_Errors(t *testing.T) {
	tests := []struct {
		name       string
		labels     []int
		rows, cols int
	}{
		{"length mismatch", []int{0, 1, 2}, 2, 2},
		{"zero rows", nil, 0, 3},
		{"negative cols", []int{0}, 1, -1},
		{"negative label", []int{0, -1}, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLabelMap(tt.labels, tt.rows, tt.cols)
			assert.True(t, errors.Is(err, ErrShape), "got %v", err)
		})
	}
}
