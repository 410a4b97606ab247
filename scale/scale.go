// Package scale implements min-max feature scaling for the forecasting
// pipeline. Scalers are fit on the training partition only and the fitted
// bounds are reused, never refit, on the test partition.
package scale

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNotFitted      = errors.New("scaler has not been fitted")
	ErrNoInputMatrix  = errors.New("no input matrix")
	ErrEmptyMatrix    = errors.New("input matrix has no rows")
	ErrColumnMismatch = errors.New("input columns do not match fitted columns")
)

// MinMax rescales each column to [0, 1] using the per-column minimum and
// maximum observed at fit time. Values outside the fitted range map outside
// [0, 1]; there is no clamping. A column with zero range transforms to a
// constant 0, matching the behavior of the reference scaler.
type MinMax struct {
	min []float64
	max []float64
}

// NewMinMax returns an unfitted scaler.
func NewMinMax() *MinMax {
	return &MinMax{}
}

// Fit learns per-column minimum and maximum bounds from x, replacing any
// previously fitted state.
func (s *MinMax) Fit(x mat.Matrix) error {
	if x == nil {
		return ErrNoInputMatrix
	}
	m, n := x.Dims()
	if m == 0 || n == 0 {
		return ErrEmptyMatrix
	}

	s.min = make([]float64, n)
	s.max = make([]float64, n)
	for j := 0; j < n; j++ {
		s.min[j] = x.At(0, j)
		s.max[j] = x.At(0, j)
		for i := 1; i < m; i++ {
			v := x.At(i, j)
			if v < s.min[j] {
				s.min[j] = v
			}
			if v > s.max[j] {
				s.max[j] = v
			}
		}
	}
	return nil
}

// Transform applies the fitted bounds, returning (x - min) / (max - min) per
// column.
func (s *MinMax) Transform(x mat.Matrix) (*mat.Dense, error) {
	if s.min == nil {
		return nil, ErrNotFitted
	}
	if x == nil {
		return nil, ErrNoInputMatrix
	}
	m, n := x.Dims()
	if n != len(s.min) {
		return nil, fmt.Errorf("got %d columns, fitted with %d, %w", n, len(s.min), ErrColumnMismatch)
	}

	res := mat.NewDense(m, n, nil)
	for j := 0; j < n; j++ {
		span := s.max[j] - s.min[j]
		for i := 0; i < m; i++ {
			if span == 0 {
				res.Set(i, j, 0.0)
				continue
			}
			res.Set(i, j, (x.At(i, j)-s.min[j])/span)
		}
	}
	return res, nil
}

// FitTransform fits the scaler on x and returns the transformed matrix.
func (s *MinMax) FitTransform(x mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

// InverseTransform maps scaled values back to the original units. For any
// value inside the fitted range this exactly inverts Transform. Zero-range
// columns invert to the fitted constant.
func (s *MinMax) InverseTransform(x mat.Matrix) (*mat.Dense, error) {
	if s.min == nil {
		return nil, ErrNotFitted
	}
	if x == nil {
		return nil, ErrNoInputMatrix
	}
	m, n := x.Dims()
	if n != len(s.min) {
		return nil, fmt.Errorf("got %d columns, fitted with %d, %w", n, len(s.min), ErrColumnMismatch)
	}

	res := mat.NewDense(m, n, nil)
	for j := 0; j < n; j++ {
		span := s.max[j] - s.min[j]
		for i := 0; i < m; i++ {
			res.Set(i, j, x.At(i, j)*span+s.min[j])
		}
	}
	return res, nil
}

// InverseVector inverse-transforms a single column of scaled values. The
// scaler must have been fitted on a single column matrix.
func (s *MinMax) InverseVector(y []float64) ([]float64, error) {
	if s.min == nil {
		return nil, ErrNotFitted
	}
	if len(s.min) != 1 {
		return nil, fmt.Errorf("fitted with %d columns, %w", len(s.min), ErrColumnMismatch)
	}

	span := s.max[0] - s.min[0]
	res := make([]float64, len(y))
	for i, v := range y {
		res[i] = v*span + s.min[0]
	}
	return res, nil
}

// Bounds returns copies of the fitted per-column minimum and maximum values.
func (s *MinMax) Bounds() ([]float64, []float64) {
	minBounds := make([]float64, len(s.min))
	maxBounds := make([]float64, len(s.max))
	copy(minBounds, s.min)
	copy(maxBounds, s.max)
	return minBounds, maxBounds
}
