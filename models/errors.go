package models

import (
	"errors"
)

var (
	ErrNoOptions           = errors.New("no initialized model options")
	ErrTargetLenMismatch   = errors.New("target length does not match target rows")
	ErrNoTrainingMatrix    = errors.New("no training matrix")
	ErrEmptyTrainingMatrix = errors.New("training matrix has no rows")
	ErrNoTargetMatrix      = errors.New("no target matrix")
	ErrNoDesignMatrix      = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch  = errors.New("number of features does not match number of training features")
	ErrUntrainedModel      = errors.New("model has not been fitted")
)
