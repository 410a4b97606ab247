// Package stats holds the statistics helpers consumed by the forecasting
// pipeline and its diagnostics.
package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInvalidWindow = errors.New("window must be at least 1")
	ErrEmptyMatrix   = errors.New("matrix has no elements")
)

// RollingMean computes the trailing mean of y over the given window. The first
// window-1 positions have no complete window and are set to NaN so plots skip
// them. NaN inputs inside a window propagate to its mean.
func RollingMean(y []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}

	res := make([]float64, len(y))
	for i := 0; i < len(y); i++ {
		if i < window-1 {
			res[i] = math.NaN()
			continue
		}
		res[i] = stat.Mean(y[i-window+1:i+1], nil)
	}
	return res, nil
}

// PopVariance computes the population variance over every element of x. This
// feeds the "scale" kernel width heuristic, gamma = 1/(nFeatures*variance),
// which expects the biased estimator. A constant matrix yields 0 and the
// caller is expected to surface the resulting degeneracy.
func PopVariance(x mat.Matrix) (float64, error) {
	m, n := x.Dims()
	if m*n == 0 {
		return 0, ErrEmptyMatrix
	}

	flat := make([]float64, 0, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			flat = append(flat, x.At(i, j))
		}
	}
	return stat.PopVariance(flat, nil), nil
}
