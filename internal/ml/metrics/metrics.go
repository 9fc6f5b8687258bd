// README: Regression error metrics and resampling helpers used for model comparison.
package metrics

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrLength = errors.New("prediction and target lengths differ or are empty")

func check(pred, y []float64) error {
	if len(pred) == 0 || len(pred) != len(y) {
		return ErrLength
	}
	return nil
}

// RMSE is the root mean squared error.
func RMSE(pred, y []float64) (float64, error) {
	if err := check(pred, y); err != nil {
		return 0, err
	}
	return floats.Distance(pred, y, 2) / math.Sqrt(float64(len(y))), nil
}

// MAE is the mean absolute error.
func MAE(pred, y []float64) (float64, error) {
	if err := check(pred, y); err != nil {
		return 0, err
	}
	return floats.Distance(pred, y, 1) / float64(len(y)), nil
}

// R2 is the coefficient of determination of pred against y.
func R2(pred, y []float64) (float64, error) {
	if err := check(pred, y); err != nil {
		return 0, err
	}
	return stat.RSquaredFrom(pred, y, nil), nil
}

// Report bundles the held-out metrics shown in the comparison table.
type Report struct {
	RMSE float64
	MAE  float64
	R2   float64
}

func Evaluate(pred, y []float64) (Report, error) {
	var r Report
	var err error
	if r.RMSE, err = RMSE(pred, y); err != nil {
		return Report{}, err
	}
	r.MAE, _ = MAE(pred, y)
	r.R2, _ = R2(pred, y)
	return r, nil
}

// Fold holds row indices for one cross-validation split.
type Fold struct {
	Train []int
	Test  []int
}

// KFold shuffles n row indices with seed and partitions them into k folds.
func KFold(n, k int, seed int64) []Fold {
	if k < 2 || n < k {
		return nil
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([]Fold, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		test := append([]int(nil), perm[start:start+size]...)
		train := make([]int, 0, n-size)
		train = append(train, perm[:start]...)
		train = append(train, perm[start+size:]...)
		sort.Ints(test)
		sort.Ints(train)
		folds[i] = Fold{Train: train, Test: test}
		start += size
	}
	return folds
}

// TrainTestSplit holds out testFraction of n rows, shuffled with seed.
func TrainTestSplit(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Ceil(float64(n) * testFraction))
	if nTest >= n {
		nTest = n - 1
	}
	if nTest < 0 {
		nTest = 0
	}
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return train, test
}

// Quantile returns the p-quantile of sorted using linear interpolation between the
// closest ranks: h = (n-1)p, the result lies between sorted[floor(h)] and sorted[ceil(h)].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 || n == 1 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
