// Package solarcast forecasts short-horizon solar irradiance from lagged
// historical readings. A Pipeline runs a single forward pass: gap repair,
// lag-window feature construction, an ordered train/test split, min-max
// scaling fit on the training partition only, an RBF-kernel support vector
// regression, and error metrics in the original physical units.
package solarcast

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridsight/solarcast/dataset"
	"github.com/gridsight/solarcast/models"
	"github.com/gridsight/solarcast/scale"
	"github.com/gridsight/solarcast/window"
	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoTable                  = errors.New("no input table")
	ErrInsufficientTrainingData = errors.New("insufficient history to form a training set")
	ErrInsufficientTestData     = errors.New("insufficient history to form a test set")
	ErrNotRun                   = errors.New("pipeline has not been run")
)

// Pipeline fits an irradiance forecast over a measurement table and evaluates
// it on the trailing test partition.
type Pipeline struct {
	opt *Options

	scalerX *scale.MinMax
	scalerY *scale.MinMax
	model   *models.SVR

	split   *window.Split
	results *Results
}

// New creates a new instance of a Pipeline using the provided options. If no
// options are provided a default is used.
func New(opt *Options) (*Pipeline, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline options, %w", err)
	}

	model, err := models.NewSVR(opt.SVROptions)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize svr model, %w", err)
	}

	return &Pipeline{
		opt:     opt,
		scalerX: scale.NewMinMax(),
		scalerY: scale.NewMinMax(),
		model:   model,
	}, nil
}

// Run executes the full forward pass over the input table and returns the
// evaluation results. The table is expected to be chronologically ordered,
// which dataset.Read guarantees.
func (p *Pipeline) Run(tbl *dataset.Table) (*Results, error) {
	if tbl == nil {
		return nil, ErrNoTable
	}

	if missing := tbl.MissingCount(); missing > 0 {
		filled := tbl.FillGaps()
		slog.Warn("missing values found, imputing with forward/backward fill",
			"missing", missing,
			"filled", filled)
	}

	rows := tbl.Len()
	tbl = tbl.Tail(p.opt.TailCap)
	if tbl.Len() < rows {
		slog.Info("truncated dataset to trailing rows", "rows", tbl.Len(), "original", rows)
	}

	irradiance, err := tbl.Column(dataset.Irradiance)
	if err != nil {
		return nil, fmt.Errorf("unable to select target column, %w", err)
	}

	samples, err := window.Slide(irradiance, tbl.T, tbl.Groups, p.opt.LagCount)
	if err != nil {
		return nil, fmt.Errorf("unable to construct lag features, %w", err)
	}
	slog.Info("constructed lag features", "samples", samples.Len(), "lags", p.opt.LagCount)

	split, err := window.NewSplit(samples, p.opt.TrainRatio)
	if err != nil {
		return nil, fmt.Errorf("unable to split samples, %w", err)
	}
	if split.Train.Len() == 0 {
		return nil, ErrInsufficientTrainingData
	}
	if split.Test.Len() == 0 {
		return nil, ErrInsufficientTestData
	}
	p.split = split
	slog.Info("split samples", "train", split.Train.Len(), "test", split.Test.Len())

	trainX, err := split.Train.FeatureMatrix()
	if err != nil {
		return nil, fmt.Errorf("unable to build training features, %w", err)
	}
	trainY, err := split.Train.LabelVector()
	if err != nil {
		return nil, fmt.Errorf("unable to build training labels, %w", err)
	}
	testX, err := split.Test.FeatureMatrix()
	if err != nil {
		return nil, fmt.Errorf("unable to build test features, %w", err)
	}

	// scaling statistics come from the training partition only
	trainXScaled, err := p.scalerX.FitTransform(trainX)
	if err != nil {
		return nil, fmt.Errorf("unable to scale training features, %w", err)
	}
	testXScaled, err := p.scalerX.Transform(testX)
	if err != nil {
		return nil, fmt.Errorf("unable to scale test features, %w", err)
	}
	trainYScaled, err := p.scalerY.FitTransform(trainY)
	if err != nil {
		return nil, fmt.Errorf("unable to scale training labels, %w", err)
	}

	if err := p.model.Fit(trainXScaled, trainYScaled); err != nil {
		return nil, fmt.Errorf("unable to fit svr model, %w", err)
	}
	slog.Info("svr model fitted",
		"support_vectors", p.model.NumSupportVectors(),
		"gamma", p.model.Gamma())

	predictedScaled, err := p.model.Predict(testXScaled)
	if err != nil {
		return nil, fmt.Errorf("unable to predict test samples, %w", err)
	}
	predicted, err := p.scalerY.InverseVector(predictedScaled)
	if err != nil {
		return nil, fmt.Errorf("unable to inverse transform predictions, %w", err)
	}

	residuals := make([]float64, len(predicted))
	copy(residuals, split.Test.Y)
	floats.Sub(residuals, predicted)

	scores, err := NewScores(predicted, split.Test.Y)
	if err != nil {
		return nil, fmt.Errorf("unable to compute scores, %w", err)
	}

	p.results = &Results{
		TrainT:      split.Train.T,
		TrainActual: split.Train.Y,
		TestT:       split.Test.T,
		TestActual:  split.Test.Y,
		Predicted:   predicted,
		Residuals:   residuals,
		Groups:      split.Test.Groups,
		Scores:      scores,
	}
	return p.results, nil
}

// Results returns the evaluation of the last run.
func (p *Pipeline) Results() *Results {
	return p.results
}

// Split returns the train/test partition of the last run.
func (p *Pipeline) Split() *window.Split {
	return p.split
}
