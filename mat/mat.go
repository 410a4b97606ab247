// Package mat provides helpers for constructing gonum dense matrices from
// native Go slices.
package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch = errors.New("column size mismatch")
	ErrEmptyVector = errors.New("empty vector")
)

// NewDenseFromArray builds a row-major dense matrix from a 2D slice. Every row
// must have the same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromVector builds a single column dense matrix from a slice. This is
// the shape label scalers and estimators expect for targets.
func NewDenseFromVector(y []float64) (*mat.Dense, error) {
	if len(y) == 0 {
		return nil, ErrEmptyVector
	}
	data := make([]float64, len(y))
	copy(data, y)
	return mat.NewDense(len(y), 1, data), nil
}
