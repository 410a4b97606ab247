package models

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gridsight/solarcast/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultC          = 10.0
	DefaultEpsilon    = 0.1
	DefaultIterations = 1000
	DefaultTolerance  = 1e-4
)

var (
	ErrNonPositiveC       = errors.New("non-positive box constraint")
	ErrNegativeEpsilon    = errors.New("negative epsilon")
	ErrNegativeIterations = errors.New("negative iterations")
	ErrNegativeTolerance  = errors.New("negative tolerance")
)

// SVROptions represents input options to fit the support vector regression
type SVROptions struct {
	// C is the box constraint on the dual coefficients, controlling the
	// regularization. Larger values track the training data more closely.
	C float64

	// Epsilon is the half-width of the insensitive tube. Residuals within
	// the tube carry no penalty.
	Epsilon float64

	// Gamma is the RBF kernel width, exp(-gamma*||a-b||^2). A non-positive
	// value derives it from the training features with the scale heuristic,
	// 1/(nFeatures*variance(X)).
	Gamma float64

	// Iterations is the maximum number of passes over all dual coefficients.
	Iterations int

	// Tolerance is the smallest relative coefficient change on each pass used
	// to determine when to stop iterating.
	Tolerance float64
}

// NewDefaultSVROptions returns the fixed hyperparameters used for irradiance
// forecasting: C=10, epsilon=0.1, gamma derived with the scale heuristic.
func NewDefaultSVROptions() *SVROptions {
	return &SVROptions{
		C:          DefaultC,
		Epsilon:    DefaultEpsilon,
		Gamma:      0,
		Iterations: DefaultIterations,
		Tolerance:  DefaultTolerance,
	}
}

// Validate runs basic validation on SVR options
func (s *SVROptions) Validate() (*SVROptions, error) {
	if s == nil {
		s = NewDefaultSVROptions()
	}

	if s.C <= 0 {
		return nil, ErrNonPositiveC
	}
	if s.Epsilon < 0 {
		return nil, ErrNegativeEpsilon
	}
	if s.Iterations < 0 {
		return nil, ErrNegativeIterations
	}
	if s.Tolerance < 0 {
		return nil, ErrNegativeTolerance
	}
	return s, nil
}

// SVR computes an epsilon-insensitive support vector regression with an RBF
// kernel. The dual problem is solved by projected coordinate descent with the
// intercept fixed at the training label mean, so each coefficient update is a
// soft threshold followed by a clip to [-C, C].
type SVR struct {
	opt *SVROptions

	gamma     float64
	intercept float64

	// support vectors and their dual coefficients after fitting
	sv   *mat.Dense
	coef []float64

	nFeatures int
}

// NewSVR initializes an SVR model ready for fitting
func NewSVR(opt *SVROptions) (*SVR, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &SVR{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. The target matrix must
// be a single column with as many rows as the training matrix.
func (s *SVR) Fit(x, y mat.Matrix) error {
	if s.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, n := x.Dims()
	if m == 0 || n == 0 {
		return ErrEmptyTrainingMatrix
	}
	ym, _ := y.Dims()
	if ym != m {
		return fmt.Errorf("training data has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	gamma := s.opt.Gamma
	if gamma <= 0 {
		variance, err := stats.PopVariance(x)
		if err != nil {
			return err
		}
		// guard the scale heuristic against a constant training matrix
		if variance == 0 {
			gamma = 1.0
		} else {
			gamma = 1.0 / (float64(n) * variance)
		}
	}
	s.gamma = gamma
	s.nFeatures = n

	rows := make([][]float64, m)
	for i := 0; i < m; i++ {
		rows[i] = mat.Row(nil, i, x)
	}

	yArr := make([]float64, m)
	for i := 0; i < m; i++ {
		yArr[i] = y.At(i, 0)
	}
	s.intercept = stat.Mean(yArr, nil)
	// center the targets so the dual drops its equality constraint
	floats.AddConst(-s.intercept, yArr)

	beta := make([]float64, m)

	// tracks the current fitted values sum_j beta_j*K_ij, updated
	// incrementally as each coefficient changes
	fitted := make([]float64, m)

	kernelRow := make([]float64, m)

	converged := false
	for iter := 0; iter < s.opt.Iterations; iter++ {
		maxCoef := 0.0
		maxUpdate := 0.0

		for i := 0; i < m; i++ {
			betaCurr := beta[i]

			// K_ii is 1 for the RBF kernel so the closed form coordinate
			// minimizer is a soft threshold of the partial residual
			g := yArr[i] - (fitted[i] - betaCurr)
			betaNext := softThreshold(g, s.opt.Epsilon)
			if betaNext > s.opt.C {
				betaNext = s.opt.C
			} else if betaNext < -s.opt.C {
				betaNext = -s.opt.C
			}

			delta := betaNext - betaCurr
			if delta == 0 {
				continue
			}
			beta[i] = betaNext

			for j := 0; j < m; j++ {
				kernelRow[j] = rbf(s.gamma, rows[i], rows[j])
			}
			floats.AddScaled(fitted, delta, kernelRow)

			maxCoef = math.Max(maxCoef, math.Abs(betaNext))
			maxUpdate = math.Max(maxUpdate, math.Abs(delta))
		}

		if maxUpdate < s.opt.Tolerance*maxCoef || maxUpdate == 0 {
			converged = true
			break
		}
	}
	if !converged {
		slog.Warn("svr fit reached iteration limit before converging",
			"iterations", s.opt.Iterations,
			"tolerance", s.opt.Tolerance)
	}

	// keep only the support vectors
	var numSupport int
	for _, b := range beta {
		if b != 0 {
			numSupport++
		}
	}
	coef := make([]float64, 0, numSupport)
	svData := make([]float64, 0, numSupport*n)
	for i, b := range beta {
		if b == 0 {
			continue
		}
		coef = append(coef, b)
		svData = append(svData, rows[i]...)
	}
	s.coef = coef
	if numSupport > 0 {
		s.sv = mat.NewDense(numSupport, n, svData)
	} else {
		s.sv = nil
	}

	return nil
}

// Predict returns the estimate for every row of the design matrix
func (s *SVR) Predict(x mat.Matrix) ([]float64, error) {
	if s.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if s.nFeatures == 0 {
		return nil, ErrUntrainedModel
	}
	m, n := x.Dims()
	if n != s.nFeatures {
		return nil, fmt.Errorf("got %d features in design matrix, but expected %d, %w", n, s.nFeatures, ErrFeatureLenMismatch)
	}

	res := make([]float64, m)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		val := s.intercept
		for j := 0; j < len(s.coef); j++ {
			val += s.coef[j] * rbf(s.gamma, row, s.sv.RawRowView(j))
		}
		res[i] = val
	}
	return res, nil
}

// Score computes the coefficient of determination of the prediction against
// the target values
func (s *SVR) Score(x, y mat.Matrix) (float64, error) {
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()
	ym, _ := y.Dims()
	if m != ym {
		return 0.0, fmt.Errorf("design matrix has %d rows and target has %d rows, %w", m, ym, ErrTargetLenMismatch)
	}

	res, err := s.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)
	return stat.RSquaredFrom(res, ySlice, nil), nil
}

// Intercept returns the fixed bias of the fit, the training label mean
func (s *SVR) Intercept() float64 {
	return s.intercept
}

// Coef returns the dual coefficients of the support vectors
func (s *SVR) Coef() []float64 {
	c := make([]float64, len(s.coef))
	copy(c, s.coef)
	return c
}

// NumSupportVectors returns the number of training points retained by the fit
func (s *SVR) NumSupportVectors() int {
	return len(s.coef)
}

// Gamma returns the kernel width used by the fit, resolving the scale
// heuristic when it was auto-derived
func (s *SVR) Gamma() float64 {
	return s.gamma
}

func softThreshold(v, penalty float64) float64 {
	if v > penalty {
		return v - penalty
	}
	if v < -penalty {
		return v + penalty
	}
	return 0.0
}

func rbf(gamma float64, a, b []float64) float64 {
	var dist float64
	for i := range a {
		d := a[i] - b[i]
		dist += d * d
	}
	return math.Exp(-gamma * dist)
}
