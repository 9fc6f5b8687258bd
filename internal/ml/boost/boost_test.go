package boost

import (
	"errors"
	"math"
	"testing"
)

// fareRows builds a deterministic synthetic dataset where price grows with distance
// and an evening surcharge applies from 17h to 19h.
func fareRows(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		dist := 0.1 + float64(i%80)*0.1
		hour := float64(i % 24)
		dur := dist / 20 * 60
		X[i] = []float64{dist, dur, 1.0, hour}
		price := 5 + 2.5*dist
		if hour >= 17 && hour <= 19 {
			price += 3
		}
		y[i] = price
	}
	return X, y
}

func TestFitInsufficientData(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name string
		X    [][]float64
		y    []float64
	}{
		{"empty", nil, nil},
		{"single row", [][]float64{{1, 3, 1, 12}}, []float64{7}},
		{"constant target", [][]float64{{1, 3, 1, 12}, {2, 6, 1, 13}, {3, 9, 1, 14}}, []float64{7, 7, 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Fit(tc.X, tc.y, p)
			if !errors.Is(err, ErrInsufficientData) {
				t.Fatalf("expected ErrInsufficientData, got %v", err)
			}
		})
	}
}

func TestFitShapeErrors(t *testing.T) {
	p := DefaultParams()
	if _, err := Fit([][]float64{{1, 2}, {1}}, []float64{1, 2}, p); !errors.Is(err, ErrShape) {
		t.Fatalf("ragged rows: expected ErrShape, got %v", err)
	}
	if _, err := Fit([][]float64{{1}, {2}}, []float64{1}, p); !errors.Is(err, ErrShape) {
		t.Fatalf("length mismatch: expected ErrShape, got %v", err)
	}
	if _, err := Fit([][]float64{{1}, {2}}, []float64{1, math.NaN()}, p); !errors.Is(err, ErrShape) {
		t.Fatalf("nan target: expected ErrShape, got %v", err)
	}
}

func TestFitInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.LearningRate = 0
	X, y := fareRows(50)
	if _, err := Fit(X, y, p); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
}

func TestFitSmallTableFallsBackToMean(t *testing.T) {
	// fewer rows than 2*MinSamplesLeaf: no split is possible
	X := [][]float64{{1, 3, 1, 8}, {2, 6, 1, 9}, {3, 9, 1, 10}}
	y := []float64{6, 8, 10}
	m, err := Fit(X, y, DefaultParams())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if m.NIter() != 0 {
		t.Fatalf("expected no trees, got %d", m.NIter())
	}
	if got := m.Predict(X[0]); math.Abs(got-8) > 1e-9 {
		t.Fatalf("Predict = %v, want mean 8", got)
	}
}

func TestFitLearnsFareShape(t *testing.T) {
	X, y := fareRows(2400)
	m, err := Fit(X, y, DefaultParams())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if m.NIter() == 0 {
		t.Fatal("expected at least one tree")
	}
	var sq float64
	for i, x := range X {
		d := m.Predict(x) - y[i]
		sq += d * d
	}
	rmse := math.Sqrt(sq / float64(len(X)))
	if rmse > 0.5 {
		t.Fatalf("training rmse = %v, want < 0.5", rmse)
	}

	short := m.Predict([]float64{1, 3, 1, 12})
	long := m.Predict([]float64{7, 21, 1, 12})
	if long <= short {
		t.Fatalf("longer trip should cost more: short=%v long=%v", short, long)
	}
	rush := m.Predict([]float64{3.5, 10.5, 1, 17})
	noon := m.Predict([]float64{3.5, 10.5, 1, 12})
	if rush <= noon {
		t.Fatalf("evening trip should cost more: rush=%v noon=%v", rush, noon)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	X, y := fareRows(1200)
	a, err := Fit(X, y, DefaultParams())
	if err != nil {
		t.Fatalf("fit a: %v", err)
	}
	b, err := Fit(X, y, DefaultParams())
	if err != nil {
		t.Fatalf("fit b: %v", err)
	}
	if a.NIter() != b.NIter() {
		t.Fatalf("iterations differ: %d vs %d", a.NIter(), b.NIter())
	}
	for _, x := range [][]float64{{0.1, 0.3, 1, 0}, {3.5, 10.5, 1, 17}, {8, 24, 1, 23}} {
		if pa, pb := a.Predict(x), b.Predict(x); pa != pb {
			t.Fatalf("predictions differ for %v: %v vs %v", x, pa, pb)
		}
	}
}

func TestFitEarlyStopping(t *testing.T) {
	X, y := fareRows(600)
	p := DefaultParams()
	p.EarlyStopping = EarlyStoppingOn
	p.NIterNoChange = 5
	m, err := Fit(X, y, p)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if len(m.ValidationLoss) != m.NIter()+1 {
		t.Fatalf("validation losses = %d, want iterations+1 = %d", len(m.ValidationLoss), m.NIter()+1)
	}
	if m.NIter() >= p.MaxIter {
		t.Fatalf("expected early stop before %d iterations, got %d", p.MaxIter, m.NIter())
	}
}

func TestPredictFiniteAtBounds(t *testing.T) {
	X, y := fareRows(500)
	m, err := Fit(X, y, DefaultParams())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, dist := range []float64{0.1, 8.0, 50} {
		v := m.Predict([]float64{dist, dist / 20 * 60, 1, 17})
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("distance %v: prediction not finite: %v", dist, v)
		}
	}
}

func TestShouldStop(t *testing.T) {
	cases := []struct {
		losses []float64
		want   bool
	}{
		{[]float64{1, 0.9}, false},
		{[]float64{1, 0.9, 0.8, 0.7}, false},
		{[]float64{1, 0.5, 0.5, 0.5}, true},
		{[]float64{1, 0.5, 0.6, 0.4}, false},
	}
	for _, tc := range cases {
		if got := shouldStop(tc.losses, 2, 1e-7); got != tc.want {
			t.Errorf("shouldStop(%v) = %v, want %v", tc.losses, got, tc.want)
		}
	}
}

func TestThresholdsFor(t *testing.T) {
	th := thresholdsFor([]float64{1, 1, 2, 3, 3}, 255)
	want := []float64{1.5, 2.5}
	if len(th) != len(want) {
		t.Fatalf("thresholds = %v, want %v", th, want)
	}
	for i := range want {
		if th[i] != want[i] {
			t.Fatalf("thresholds = %v, want %v", th, want)
		}
	}

	many := make([]float64, 1000)
	for i := range many {
		many[i] = float64(i)
	}
	th = thresholdsFor(many, 16)
	if len(th) != 15 {
		t.Fatalf("expected 15 thresholds, got %d", len(th))
	}
	// percentile cut points of 0..999: (n-1)*i/16
	for i, v := range th {
		if want := 999 * float64(i+1) / 16; math.Abs(v-want) > 1e-9 {
			t.Fatalf("threshold %d = %v, want %v", i, v, want)
		}
	}

	even := make([]float64, 0, 400)
	for i := 0; i < 400; i++ {
		even = append(even, float64(i/2))
	}
	if th := thresholdsFor(even, 4); len(th) != 3 || th[1] != 99.5 {
		t.Fatalf("thresholds = %v, want median cut 99.5", th)
	}
}

func TestTreesRespectLeafBound(t *testing.T) {
	X, y := fareRows(800)
	p := DefaultParams()
	p.MaxIter = 20
	p.MaxLeafNodes = 4
	m, err := Fit(X, y, p)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	split := false
	for i, tree := range m.Trees {
		n := tree.Leaves()
		if n < 1 || n > p.MaxLeafNodes {
			t.Fatalf("tree %d has %d leaves, want 1..%d", i, n, p.MaxLeafNodes)
		}
		if n > 1 {
			split = true
		}
	}
	if !split {
		t.Fatal("expected at least one tree to split")
	}
}
