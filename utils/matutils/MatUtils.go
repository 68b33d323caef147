// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0

	for i := 1; i < values.Len(); i++ {
		if values.AtVec(i) > max {
			max = values.AtVec(i)
			idx = i
		}
	}
	return idx
}

// ArgMax returns the index of the maximum value in a slice. Ties are
// broken in favour of the lowest index.
func ArgMax(values []float64) int {
	return MaxVec(mat.NewVecDense(len(values), values))
}

// MeanSquaredDiff returns the mean of the element-wise squared
// difference between two matrices of equal shape.
func MeanSquaredDiff(a, b mat.Matrix) (float64, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return 0, fmt.Errorf("meanSquaredDiff: shape (%d, %d) != (%d, %d)",
			ar, ac, br, bc)
	}

	diff := mat.NewDense(ar, ac, nil)
	diff.Sub(a, b)
	raw := diff.RawMatrix().Data
	return floats.Dot(raw, raw) / float64(len(raw)), nil
}
