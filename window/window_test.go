package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSeries(n int) ([]float64, []time.Time) {
	y := make([]float64, 0, n)
	t := make([]time.Time, 0, n)
	ct := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		y = append(y, float64(i))
		t = append(t, ct.Add(time.Duration(i)*time.Hour))
	}
	return y, t
}

func TestSlide(t *testing.T) {
	y, ts := generateSeries(10)

	s, err := Slide(y, ts, nil, 3)
	require.Nil(t, err)
	require.Equal(t, 7, s.Len())

	for i := 0; i < s.Len(); i++ {
		require.Len(t, s.X[i], 3)
		// each feature vector holds the 3 values immediately preceding the label
		assert.Equal(t, []float64{float64(i), float64(i + 1), float64(i + 2)}, s.X[i])
		assert.Equal(t, float64(i+3), s.Y[i])
		assert.Equal(t, ts[i+3], s.T[i])
	}
	assert.Nil(t, s.Groups)
}

func TestSlideWithGroups(t *testing.T) {
	y, ts := generateSeries(5)
	groups := []string{"a", "a", "b", "b", "c"}

	s, err := Slide(y, ts, groups, 2)
	require.Nil(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"b", "b", "c"}, s.Groups)
}

func TestSlideDegenerate(t *testing.T) {
	testData := map[string]struct {
		n    int
		lags int
	}{
		"series equal to lags":  {n: 24, lags: 24},
		"series shorter":        {n: 10, lags: 24},
		"empty series":          {n: 0, lags: 24},
		"single point, one lag": {n: 1, lags: 1},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			y, ts := generateSeries(td.n)
			s, err := Slide(y, ts, nil, td.lags)
			require.Nil(t, err)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestSlideErrors(t *testing.T) {
	y, ts := generateSeries(5)

	_, err := Slide(y, ts, nil, 0)
	require.ErrorIs(t, err, ErrInvalidLags)

	_, err = Slide(y, ts[:4], nil, 2)
	require.ErrorIs(t, err, ErrLenMismatch)

	_, err = Slide(y, ts, []string{"a"}, 2)
	require.ErrorIs(t, err, ErrLenMismatch)
}

func TestNewSplit(t *testing.T) {
	y, ts := generateSeries(1000)
	s, err := Slide(y, ts, nil, 24)
	require.Nil(t, err)
	require.Equal(t, 976, s.Len())

	sp, err := NewSplit(s, 0.8)
	require.Nil(t, err)

	// floor(0.8 * 976)
	assert.Equal(t, 780, sp.Boundary)
	assert.Equal(t, 780, sp.Train.Len())
	assert.Equal(t, 196, sp.Test.Len())

	// train followed by test reconstructs the ordered sample sequence exactly
	assert.Equal(t, s.Y[:780], sp.Train.Y)
	assert.Equal(t, s.Y[780:], sp.Test.Y)
	assert.Equal(t, s.T[779], sp.Train.T[779])
	assert.Equal(t, s.T[780], sp.Test.T[0])
	assert.True(t, sp.Train.T[779].Before(sp.Test.T[0]))
}

func TestNewSplitDegenerate(t *testing.T) {
	y, ts := generateSeries(4)
	s, err := Slide(y, ts, nil, 2)
	require.Nil(t, err)
	require.Equal(t, 2, s.Len())

	// floor(0.4*2) = 0 leaves an empty training set; split itself tolerates it
	sp, err := NewSplit(s, 0.4)
	require.Nil(t, err)
	assert.Equal(t, 0, sp.Train.Len())
	assert.Equal(t, 2, sp.Test.Len())

	_, err = NewSplit(s, 0.0)
	require.ErrorIs(t, err, ErrInvalidRatio)
	_, err = NewSplit(s, 1.0)
	require.ErrorIs(t, err, ErrInvalidRatio)
	_, err = NewSplit(nil, 0.8)
	require.ErrorIs(t, err, ErrNoSamples)
}

func TestFeatureMatrix(t *testing.T) {
	y, ts := generateSeries(6)
	s, err := Slide(y, ts, nil, 2)
	require.Nil(t, err)

	x, err := s.FeatureMatrix()
	require.Nil(t, err)
	m, n := x.Dims()
	assert.Equal(t, 4, m)
	assert.Equal(t, 2, n)

	labels, err := s.LabelVector()
	require.Nil(t, err)
	lm, ln := labels.Dims()
	assert.Equal(t, 4, lm)
	assert.Equal(t, 1, ln)

	empty := &Samples{}
	_, err = empty.FeatureMatrix()
	require.ErrorIs(t, err, ErrEmptySampleSet)
	_, err = empty.LabelVector()
	require.ErrorIs(t, err, ErrEmptySampleSet)
}
