package solarcast

import "time"

// Results bundles everything a reporting routine needs: the training actuals
// with their timestamps, the test actuals and predictions with theirs, the
// residuals, the optional per-sample group labels, and the scalar metrics.
// Every slice indexed by test sample shares the alignment produced by the
// splitter.
type Results struct {
	TrainT      []time.Time `json:"train_time"`
	TrainActual []float64   `json:"train_actual"`

	TestT      []time.Time `json:"test_time"`
	TestActual []float64   `json:"test_actual"`
	Predicted  []float64   `json:"predicted"`
	Residuals  []float64   `json:"residuals"`

	Groups []string `json:"groups,omitempty"`

	Scores *Scores `json:"scores"`
}
