// README: Hyperparameters for the histogram gradient boosting regressor.
package boost

import (
	"errors"
	"fmt"
)

// EarlyStopping selects whether a validation split is held out to stop boosting early.
type EarlyStopping string

const (
	EarlyStoppingAuto EarlyStopping = "auto" // on when the training set exceeds autoEarlyStopRows
	EarlyStoppingOn   EarlyStopping = "on"
	EarlyStoppingOff  EarlyStopping = "off"
)

const autoEarlyStopRows = 10000

var ErrInvalidParams = errors.New("invalid boosting parameters")

type Params struct {
	MaxIter            int
	LearningRate       float64
	MaxDepth           int // 0 means unbounded; depth is counted in edges from the root
	MaxLeafNodes       int
	MinSamplesLeaf     int
	L2Regularization   float64
	MaxBins            int
	Seed               int64
	EarlyStopping      EarlyStopping
	ValidationFraction float64
	NIterNoChange      int
	Tol                float64
}

// DefaultParams mirrors the fare model used by the dashboard: 400 iterations,
// learning rate 0.1, depth 5, seed 42.
func DefaultParams() Params {
	return Params{
		MaxIter:            400,
		LearningRate:       0.1,
		MaxDepth:           5,
		MaxLeafNodes:       31,
		MinSamplesLeaf:     20,
		L2Regularization:   0,
		MaxBins:            255,
		Seed:               42,
		EarlyStopping:      EarlyStoppingAuto,
		ValidationFraction: 0.1,
		NIterNoChange:      10,
		Tol:                1e-7,
	}
}

func (p Params) Validate() error {
	switch {
	case p.MaxIter < 1:
		return fmt.Errorf("%w: max iterations must be positive", ErrInvalidParams)
	case p.LearningRate <= 0:
		return fmt.Errorf("%w: learning rate must be positive", ErrInvalidParams)
	case p.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative", ErrInvalidParams)
	case p.MaxLeafNodes < 2:
		return fmt.Errorf("%w: max leaf nodes must be at least 2", ErrInvalidParams)
	case p.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min samples per leaf must be positive", ErrInvalidParams)
	case p.L2Regularization < 0:
		return fmt.Errorf("%w: l2 regularization must not be negative", ErrInvalidParams)
	case p.MaxBins < 2 || p.MaxBins > 255:
		return fmt.Errorf("%w: max bins must be within [2, 255]", ErrInvalidParams)
	}
	switch p.EarlyStopping {
	case EarlyStoppingAuto, EarlyStoppingOn, EarlyStoppingOff:
	default:
		return fmt.Errorf("%w: unknown early stopping mode %q", ErrInvalidParams, p.EarlyStopping)
	}
	if p.EarlyStopping != EarlyStoppingOff {
		if p.ValidationFraction <= 0 || p.ValidationFraction >= 1 {
			return fmt.Errorf("%w: validation fraction must be within (0, 1)", ErrInvalidParams)
		}
		if p.NIterNoChange < 1 {
			return fmt.Errorf("%w: iterations without change must be positive", ErrInvalidParams)
		}
	}
	return nil
}

// Key is a stable identity for the parameter set, used to memoise fitted models.
func (p Params) Key() string {
	return fmt.Sprintf("it%d-lr%g-d%d-l%d-m%d-l2%g-b%d-s%d-es%s-vf%g-nc%d-tol%g",
		p.MaxIter, p.LearningRate, p.MaxDepth, p.MaxLeafNodes, p.MinSamplesLeaf,
		p.L2Regularization, p.MaxBins, p.Seed, p.EarlyStopping,
		p.ValidationFraction, p.NIterNoChange, p.Tol)
}

func (p Params) useEarlyStopping(nSamples int) bool {
	switch p.EarlyStopping {
	case EarlyStoppingOn:
		return true
	case EarlyStoppingAuto:
		return nSamples > autoEarlyStopRows
	default:
		return false
	}
}
