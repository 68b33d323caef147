package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestArgMax(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   int
	}{
		{"single", []float64{3}, 0},
		{"last", []float64{-1, 0, 2}, 2},
		{"allZero", []float64{0, 0, 0, 0}, 0},
		{"tieLowest", []float64{-5, 7, 7, 1}, 1},
		{"negative", []float64{-3, -2, -9}, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, ArgMax(test.values))
		})
	}
}

func TestMeanSquaredDiff(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1, 0, 3, 0})

	mse, err := MeanSquaredDiff(a, b)
	require.NoError(t, err)
	assert.InDelta(t, (4.0+16.0)/4.0, mse, 1e-12)

	mse, err = MeanSquaredDiff(a, a)
	require.NoError(t, err)
	assert.Zero(t, mse)

	_, err = MeanSquaredDiff(a, mat.NewDense(1, 4, nil))
	assert.Error(t, err)
}
