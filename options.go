package solarcast

import (
	"errors"

	"github.com/gridsight/solarcast/models"
)

const (
	DefaultLagCount       = 24
	DefaultTrainRatio     = 0.8
	DefaultTailCap        = 10000
	DefaultResidualWindow = 30
)

var (
	ErrInvalidLagCount   = errors.New("lag count must be at least 1")
	ErrInvalidTrainRatio = errors.New("train ratio must be in (0, 1)")
)

// Options centralizes every run constant so no stage carries its own copy of
// the configuration.
type Options struct {
	// LagCount is the number of past irradiance readings used as features
	// for each prediction point.
	LagCount int

	// TrainRatio is the fraction of samples forming the leading training
	// segment. The remainder is the trailing test segment.
	TrainRatio float64

	// TailCap keeps only the trailing rows of the input table to bound fit
	// time. Non-positive disables truncation.
	TailCap int

	// ResidualWindow is the rolling mean window of the residual trend chart.
	ResidualWindow int

	// SVROptions are the estimator hyperparameters.
	SVROptions *models.SVROptions
}

// NewDefaultOptions returns the fixed configuration of the irradiance
// forecasting run.
func NewDefaultOptions() *Options {
	return &Options{
		LagCount:       DefaultLagCount,
		TrainRatio:     DefaultTrainRatio,
		TailCap:        DefaultTailCap,
		ResidualWindow: DefaultResidualWindow,
		SVROptions:     models.NewDefaultSVROptions(),
	}
}

// Validate runs basic validation on pipeline options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.LagCount < 1 {
		return nil, ErrInvalidLagCount
	}
	if o.TrainRatio <= 0.0 || o.TrainRatio >= 1.0 {
		return nil, ErrInvalidTrainRatio
	}
	if o.ResidualWindow < 1 {
		o.ResidualWindow = DefaultResidualWindow
	}
	if o.SVROptions == nil {
		o.SVROptions = models.NewDefaultSVROptions()
	}
	return o, nil
}
