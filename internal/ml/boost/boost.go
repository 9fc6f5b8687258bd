// README: Histogram gradient boosting regressor with least-squares loss.
package boost

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrShape            = errors.New("inconsistent training data shape")
)

// Model is a fitted ensemble. It is immutable and safe for concurrent Predict calls.
type Model struct {
	Baseline       float64
	Trees          []*Tree
	Params         Params
	NFeatures      int
	TrainLoss      []float64
	ValidationLoss []float64
}

// Fit trains a boosted ensemble on X (rows of features) against y.
// It fails with ErrInsufficientData when there are no rows or fewer than two
// distinct target values.
func Fit(X [][]float64, y []float64, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("%w: %d rows but %d targets", ErrShape, len(X), len(y))
	}
	if len(X) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInsufficientData)
	}
	nf := len(X[0])
	if nf == 0 {
		return nil, fmt.Errorf("%w: no features", ErrShape)
	}
	for i, row := range X {
		if len(row) != nf {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrShape, i, len(row), nf)
		}
	}
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: target %d is not finite", ErrShape, i)
		}
	}
	if !hasTwoDistinct(y) {
		return nil, fmt.Errorf("%w: fewer than two distinct target values", ErrInsufficientData)
	}

	rng := rand.New(rand.NewSource(p.Seed))

	Xtr, ytr := X, y
	var Xval [][]float64
	var yval []float64
	if p.useEarlyStopping(len(X)) {
		nVal := int(math.Ceil(float64(len(X)) * p.ValidationFraction))
		if nVal >= 1 && len(X)-nVal >= 2 {
			perm := rng.Perm(len(X))
			Xtr, ytr = gather(X, y, perm[nVal:])
			Xval, yval = gather(X, y, perm[:nVal])
			if !hasTwoDistinct(ytr) {
				Xtr, ytr, Xval, yval = X, y, nil, nil
			}
		}
	}

	bins := fitBins(Xtr, p.MaxBins, rng)
	g := &grower{
		binned:     bins.transform(Xtr),
		thresholds: bins.thresholds,
		grad:       make([]float64, len(ytr)),
		p:          p,
	}

	m := &Model{
		Baseline:  floats.Sum(ytr) / float64(len(ytr)),
		Params:    p,
		NFeatures: nf,
	}

	raw := make([]float64, len(ytr))
	for i := range raw {
		raw[i] = m.Baseline
	}
	var valRaw []float64
	if Xval != nil {
		valRaw = make([]float64, len(yval))
		for i := range valRaw {
			valRaw[i] = m.Baseline
		}
		m.ValidationLoss = append(m.ValidationLoss, halfSquaredError(valRaw, yval))
	}

	rows := make([]int, len(ytr))
	for i := range rows {
		rows[i] = i
	}

	for it := 0; it < p.MaxIter; it++ {
		for i := range raw {
			g.grad[i] = raw[i] - ytr[i]
		}
		tree, leaves := g.grow(rows)
		if len(tree.nodes) == 1 {
			// no split improves the loss; further iterations would repeat this tree
			break
		}
		for _, l := range leaves {
			v := tree.nodes[l.id].value
			for _, r := range l.rows {
				raw[r] += v
			}
		}
		m.Trees = append(m.Trees, tree)
		m.TrainLoss = append(m.TrainLoss, halfSquaredError(raw, ytr))

		if valRaw != nil {
			for i, x := range Xval {
				valRaw[i] += tree.predict(x)
			}
			m.ValidationLoss = append(m.ValidationLoss, halfSquaredError(valRaw, yval))
			if shouldStop(m.ValidationLoss, p.NIterNoChange, p.Tol) {
				break
			}
		}
	}
	return m, nil
}

// Predict returns the model output for one feature row.
func (m *Model) Predict(x []float64) float64 {
	out := m.Baseline
	for _, t := range m.Trees {
		out += t.predict(x)
	}
	return out
}

func (m *Model) PredictBatch(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, x := range X {
		out[i] = m.Predict(x)
	}
	return out
}

// NIter is the number of boosting iterations kept.
func (m *Model) NIter() int {
	return len(m.Trees)
}

// shouldStop reports whether none of the last n losses improved on the loss
// recorded n+1 entries ago by more than tol.
func shouldStop(losses []float64, n int, tol float64) bool {
	if len(losses) < n+1 {
		return false
	}
	ref := losses[len(losses)-n-1]
	for _, l := range losses[len(losses)-n:] {
		if l < ref-tol {
			return false
		}
	}
	return true
}

func halfSquaredError(pred, y []float64) float64 {
	d := floats.Distance(pred, y, 2)
	return 0.5 * d * d / float64(len(y))
}

func hasTwoDistinct(y []float64) bool {
	for _, v := range y[1:] {
		if v != y[0] {
			return true
		}
	}
	return false
}

func gather(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
