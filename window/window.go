// Package window constructs supervised learning samples from an ordered time
// series using lagged observations, and partitions them into chronologically
// ordered training and test sets.
package window

import (
	"errors"
	"fmt"
	"time"

	smat "github.com/gridsight/solarcast/mat"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrInvalidLags     = errors.New("lag count must be at least 1")
	ErrInvalidRatio    = errors.New("train ratio must be in (0, 1)")
	ErrLenMismatch     = errors.New("series, time, and group lengths differ")
	ErrNoSamples       = errors.New("no samples to split")
	ErrEmptySampleSet  = errors.New("empty sample set")
	ErrUnalignedGroups = errors.New("groups present but not aligned to samples")
)

// Samples holds ordered feature/label pairs. T carries the timestamp of each
// label row and Groups the optional grouping value of that row, so every
// downstream consumer shares one index alignment instead of recomputing
// offsets.
type Samples struct {
	X      [][]float64
	Y      []float64
	T      []time.Time
	Groups []string
}

// Len returns the number of samples.
func (s *Samples) Len() int {
	return len(s.Y)
}

// FeatureMatrix returns the features as a dense row-major matrix.
func (s *Samples) FeatureMatrix() (*mat.Dense, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySampleSet
	}
	return smat.NewDenseFromArray(s.X)
}

// LabelVector returns the labels as a single column matrix.
func (s *Samples) LabelVector() (*mat.Dense, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySampleSet
	}
	return smat.NewDenseFromVector(s.Y)
}

// Slide emits one sample per index i in [lags, len(y)): the feature vector is
// the lags values immediately preceding i in chronological order and the label
// is y[i]. A series with len(y) <= lags produces zero samples and no error;
// the insufficiency surfaces at split time.
func Slide(y []float64, t []time.Time, groups []string, lags int) (*Samples, error) {
	if lags < 1 {
		return nil, ErrInvalidLags
	}
	if len(t) != len(y) {
		return nil, fmt.Errorf("series has %d values and %d timestamps, %w", len(y), len(t), ErrLenMismatch)
	}
	if groups != nil && len(groups) != len(y) {
		return nil, fmt.Errorf("series has %d values and %d groups, %w", len(y), len(groups), ErrLenMismatch)
	}

	n := len(y) - lags
	if n < 0 {
		n = 0
	}
	s := &Samples{
		X: make([][]float64, 0, n),
		Y: make([]float64, 0, n),
		T: make([]time.Time, 0, n),
	}
	if groups != nil {
		s.Groups = make([]string, 0, n)
	}

	for i := lags; i < len(y); i++ {
		feat := make([]float64, lags)
		copy(feat, y[i-lags:i])
		s.X = append(s.X, feat)
		s.Y = append(s.Y, y[i])
		s.T = append(s.T, t[i])
		if groups != nil {
			s.Groups = append(s.Groups, groups[i])
		}
	}
	return s, nil
}

// Split partitions samples into a leading training segment and a trailing test
// segment at boundary = floor(ratio*len). Order is preserved and the two
// segments reconstruct the input exactly.
type Split struct {
	Train    *Samples
	Test     *Samples
	Boundary int
}

// NewSplit splits s without shuffling. A degenerate boundary producing an
// empty train or test set is allowed here and must be rejected by the caller
// before fitting.
func NewSplit(s *Samples, ratio float64) (*Split, error) {
	if s == nil {
		return nil, ErrNoSamples
	}
	if ratio <= 0.0 || ratio >= 1.0 {
		return nil, ErrInvalidRatio
	}
	if s.Groups != nil && len(s.Groups) != s.Len() {
		return nil, ErrUnalignedGroups
	}

	boundary := int(ratio * float64(s.Len()))
	sp := &Split{
		Train:    section(s, 0, boundary),
		Test:     section(s, boundary, s.Len()),
		Boundary: boundary,
	}
	return sp, nil
}

func section(s *Samples, start, end int) *Samples {
	res := &Samples{
		X: s.X[start:end],
		Y: s.Y[start:end],
		T: s.T[start:end],
	}
	if s.Groups != nil {
		res.Groups = s.Groups[start:end]
	}
	return res
}
