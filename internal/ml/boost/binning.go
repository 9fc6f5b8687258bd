package boost

import (
	"math"
	"math/rand"
	"sort"

	"farecast/internal/ml/metrics"
)

// Thresholds are computed on at most this many rows.
const binSubsampleRows = 200000

// binMapper buckets each feature into at most maxBins ordinal bins. A value x falls in
// bin b, the first b with x <= thresholds[b]; values above every threshold (and NaN)
// fall in the last bin.
type binMapper struct {
	thresholds [][]float64
}

func fitBins(X [][]float64, maxBins int, rng *rand.Rand) *binMapper {
	n := len(X)
	nf := len(X[0])

	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	if n > binSubsampleRows {
		rows = rng.Perm(n)[:binSubsampleRows]
		sort.Ints(rows)
	}

	m := &binMapper{thresholds: make([][]float64, nf)}
	col := make([]float64, 0, len(rows))
	for f := 0; f < nf; f++ {
		col = col[:0]
		for _, r := range rows {
			if v := X[r][f]; !math.IsNaN(v) {
				col = append(col, v)
			}
		}
		sort.Float64s(col)
		m.thresholds[f] = thresholdsFor(col, maxBins)
	}
	return m
}

// thresholdsFor expects sorted values.
func thresholdsFor(sorted []float64, maxBins int) []float64 {
	distinct := make([]float64, 0, maxBins)
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			distinct = append(distinct, v)
			if len(distinct) > maxBins {
				break
			}
		}
	}

	if len(distinct) <= maxBins {
		th := make([]float64, 0, len(distinct))
		for i := 0; i+1 < len(distinct); i++ {
			th = append(th, distinct[i]+(distinct[i+1]-distinct[i])/2)
		}
		return th
	}

	th := make([]float64, 0, maxBins-1)
	for i := 1; i < maxBins; i++ {
		q := metrics.Quantile(sorted, float64(i)/float64(maxBins))
		if len(th) == 0 || q > th[len(th)-1] {
			th = append(th, q)
		}
	}
	return th
}

func (m *binMapper) bin(f int, x float64) uint8 {
	th := m.thresholds[f]
	if math.IsNaN(x) {
		return uint8(len(th))
	}
	return uint8(sort.Search(len(th), func(i int) bool { return x <= th[i] }))
}

func (m *binMapper) nBins(f int) int {
	return len(m.thresholds[f]) + 1
}

// transform returns the binned matrix in column-major order: out[feature][row].
func (m *binMapper) transform(X [][]float64) [][]uint8 {
	nf := len(m.thresholds)
	out := make([][]uint8, nf)
	for f := 0; f < nf; f++ {
		col := make([]uint8, len(X))
		for i, row := range X {
			col[i] = m.bin(f, row[f])
		}
		out[f] = col
	}
	return out
}
