package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMinMaxTransform(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		0.0, 10.0,
		5.0, 20.0,
		10.0, 30.0,
	})

	s := NewMinMax()
	res, err := s.FitTransform(x)
	require.Nil(t, err)

	expected := []float64{
		0.0, 0.0,
		0.5, 0.5,
		1.0, 1.0,
	}
	assert.InDeltaSlice(t, expected, res.RawMatrix().Data, 1e-12)
}

func TestMinMaxRoundTrip(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{3.0, 7.5, 12.0, 9.25})

	s := NewMinMax()
	scaled, err := s.FitTransform(x)
	require.Nil(t, err)

	back, err := s.InverseTransform(scaled)
	require.Nil(t, err)
	assert.InDeltaSlice(t, x.RawMatrix().Data, back.RawMatrix().Data, 1e-12)
}

func TestMinMaxTrainOnlyStatistics(t *testing.T) {
	train := mat.NewDense(2, 1, []float64{0.0, 10.0})
	s := NewMinMax()
	require.Nil(t, s.Fit(train))

	minBefore, maxBefore := s.Bounds()

	// transforming unseen data must not change the fitted bounds
	test := mat.NewDense(2, 1, []float64{-50.0, 50.0})
	res, err := s.Transform(test)
	require.Nil(t, err)

	minAfter, maxAfter := s.Bounds()
	assert.Equal(t, minBefore, minAfter)
	assert.Equal(t, maxBefore, maxAfter)

	// values outside the fitted range map outside [0, 1] with no clamping
	assert.InDelta(t, -5.0, res.At(0, 0), 1e-12)
	assert.InDelta(t, 5.0, res.At(1, 0), 1e-12)
}

func TestMinMaxZeroSpan(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{4.0, 4.0, 4.0})

	s := NewMinMax()
	res, err := s.FitTransform(x)
	require.Nil(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, res.At(i, 0))
	}

	// inverse of the zero-span constant recovers the fitted value
	back, err := s.InverseTransform(res)
	require.Nil(t, err)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 4.0, back.At(i, 0))
	}
}

func TestMinMaxInverseVector(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{0.0, 50.0, 100.0})
	s := NewMinMax()
	require.Nil(t, s.Fit(x))

	res, err := s.InverseVector([]float64{0.0, 0.25, 1.0})
	require.Nil(t, err)
	assert.InDeltaSlice(t, []float64{0.0, 25.0, 100.0}, res, 1e-12)
}

func TestMinMaxErrors(t *testing.T) {
	s := NewMinMax()

	_, err := s.Transform(mat.NewDense(1, 1, []float64{1.0}))
	require.ErrorIs(t, err, ErrNotFitted)

	_, err = s.InverseVector([]float64{0.5})
	require.ErrorIs(t, err, ErrNotFitted)

	require.ErrorIs(t, s.Fit(nil), ErrNoInputMatrix)

	require.Nil(t, s.Fit(mat.NewDense(2, 2, []float64{1.0, 2.0, 3.0, 4.0})))
	_, err = s.Transform(mat.NewDense(1, 3, []float64{1.0, 2.0, 3.0}))
	require.ErrorIs(t, err, ErrColumnMismatch)

	_, err = s.InverseVector([]float64{0.5})
	require.ErrorIs(t, err, ErrColumnMismatch)
}
