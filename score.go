package solarcast

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoScoreData    = errors.New("no values to score")
)

// mapeGuard keeps the MAPE denominator away from zero for nighttime readings.
// It is an approximation, not an exact guard, and near-zero actuals still
// produce very large percentage errors. That distortion is a known property of
// MAPE in this domain and is preserved as-is.
const mapeGuard = 1e-8

// Scores summarizes forecast accuracy over a test partition in the original
// physical units.
type Scores struct {
	RMSE float64 `json:"rmse"` // root mean squared error
	MAE  float64 `json:"mae"`  // mean absolute error
	MAPE float64 `json:"mape"` // mean absolute percent error
}

// NewScores calculates the error metrics given the predicted and actual input
// slice values.
func NewScores(predicted, actual []float64) (*Scores, error) {
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	mape, err := MAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute percent error, %w", err)
	}
	return &Scores{
		RMSE: rmse,
		MAE:  mae,
		MAPE: mape,
	}, nil
}

// RMSE computes the root mean squared error, sqrt(mean((y-yhat)^2)). A score
// of 0 means a perfect match with no errors.
func RMSE(predicted, actual []float64) (float64, error) {
	if err := validateScoreInput(predicted, actual); err != nil {
		return 0, err
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	mse /= float64(len(actual))
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error, mean(|y-yhat|).
func MAE(predicted, actual []float64) (float64, error) {
	if err := validateScoreInput(predicted, actual); err != nil {
		return 0, err
	}

	mae := 0.0
	for i := 0; i < len(actual); i++ {
		mae += math.Abs(actual[i] - predicted[i])
	}
	mae /= float64(len(actual))
	return mae, nil
}

// MAPE computes the mean absolute percent error,
// mean(|(y-yhat)/(y+1e-8)|)*100.
func MAPE(predicted, actual []float64) (float64, error) {
	if err := validateScoreInput(predicted, actual); err != nil {
		return 0, err
	}

	mape := 0.0
	for i := 0; i < len(actual); i++ {
		mape += math.Abs((actual[i] - predicted[i]) / (actual[i] + mapeGuard))
	}
	mape /= float64(len(actual))
	return mape * 100.0, nil
}

func validateScoreInput(predicted, actual []float64) error {
	if len(predicted) != len(actual) {
		return fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return ErrNoScoreData
	}
	return nil
}

// GroupScore pairs a grouping label with the error metrics of the samples
// carrying that label.
type GroupScore struct {
	Group  string  `json:"group"`
	Scores *Scores `json:"scores"`
}

// NewGroupScores partitions predictions by group label and scores each group
// independently. Groups are returned in lexical order.
func NewGroupScores(groups []string, predicted, actual []float64) ([]GroupScore, error) {
	if len(groups) != len(actual) || len(predicted) != len(actual) {
		return nil, ErrResLenMismatch
	}

	byGroup := make(map[string][2][]float64)
	for i, g := range groups {
		pair := byGroup[g]
		pair[0] = append(pair[0], predicted[i])
		pair[1] = append(pair[1], actual[i])
		byGroup[g] = pair
	}

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	res := make([]GroupScore, 0, len(names))
	for _, name := range names {
		pair := byGroup[name]
		scores, err := NewScores(pair[0], pair[1])
		if err != nil {
			return nil, fmt.Errorf("unable to score group %s, %w", name, err)
		}
		res = append(res, GroupScore{Group: name, Scores: scores})
	}
	return res, nil
}
