// README: Exploratory statistics over a cleaned trip table.
package eda

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"farecast/internal/ml/metrics"
	"farecast/internal/modules/trips"
)

const DefaultBins = 30

// Columns summarised and correlated, in output order.
var Columns = []string{trips.ColDistance, trips.ColDuration, trips.ColSurge, trips.ColHour, trips.ColPrice}

type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Histogram bins are half-open [Edges[i], Edges[i+1]).
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []float64 `json:"counts"`
}

type Correlation struct {
	Columns []string    `json:"columns"`
	Matrix  [][]float64 `json:"matrix"`
}

type ProductPrice struct {
	Product   string  `json:"product"`
	Trips     int     `json:"trips"`
	MeanPrice float64 `json:"mean_price"`
}

type Report struct {
	Provider           string         `json:"provider"`
	Rows               int            `json:"rows"`
	RawRows            int            `json:"raw_rows"`
	Summaries          []Summary      `json:"summaries"`
	PriceHistogram     Histogram      `json:"price_histogram"`
	Correlation        Correlation    `json:"correlation"`
	PriceDistanceCorr  float64        `json:"price_distance_corr"`
	MeanPriceByProduct []ProductPrice `json:"mean_price_by_product"`
}

// Analyze computes the dashboard's exploratory statistics. bins <= 0 uses DefaultBins.
func Analyze(t *trips.Table, bins int) Report {
	if bins <= 0 {
		bins = DefaultBins
	}
	r := Report{Provider: t.Provider(), Rows: t.Len(), RawRows: t.RawRows()}
	cols := make(map[string][]float64, len(Columns))
	for _, c := range Columns {
		cols[c] = t.Column(c)
		r.Summaries = append(r.Summaries, Summarize(c, cols[c]))
	}
	r.PriceHistogram = NewHistogram(cols[trips.ColPrice], bins)
	r.Correlation = CorrelationMatrix(Columns, cols)
	r.PriceDistanceCorr = correlation(cols[trips.ColPrice], cols[trips.ColDistance])
	r.MeanPriceByProduct = MeanPriceByProduct(t.Records())
	return r
}

func Summarize(name string, x []float64) Summary {
	s := Summary{Column: name, Count: len(x)}
	if len(x) == 0 {
		return s
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(x, nil)
	if len(x) > 1 {
		s.Std = stat.StdDev(x, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = metrics.Quantile(sorted, 0.25)
	s.Median = metrics.Quantile(sorted, 0.5)
	s.Q3 = metrics.Quantile(sorted, 0.75)
	return s
}

// NewHistogram splits [min(x), max(x)] into n equal-width bins.
func NewHistogram(x []float64, n int) Histogram {
	if len(x) == 0 || n <= 0 {
		return Histogram{}
	}
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		n = 1
	}

	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	// stat.Histogram excludes the upper edge.
	edges[n] = math.Nextafter(hi, math.Inf(1))

	counts := make([]float64, n)
	stat.Histogram(counts, edges, sorted, nil)
	edges[n] = hi
	return Histogram{Edges: edges, Counts: counts}
}

// CorrelationMatrix returns Pearson correlations between the named columns.
// Undefined correlations (a constant column) are reported as 0.
func CorrelationMatrix(names []string, cols map[string][]float64) Correlation {
	m := make([][]float64, len(names))
	for i, a := range names {
		m[i] = make([]float64, len(names))
		for j, b := range names {
			switch {
			case i == j:
				m[i][j] = 1
			case j < i:
				m[i][j] = m[j][i]
			default:
				m[i][j] = correlation(cols[a], cols[b])
			}
		}
	}
	return Correlation{Columns: append([]string(nil), names...), Matrix: m}
}

func correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0
	}
	return c
}

// MeanPriceByProduct averages price per product name, sorted by name. Records
// without a product are skipped.
func MeanPriceByProduct(records []trips.Record) []ProductPrice {
	prices := make(map[string][]float64)
	for _, r := range records {
		if r.Product == "" {
			continue
		}
		prices[r.Product] = append(prices[r.Product], r.Price)
	}
	out := make([]ProductPrice, 0, len(prices))
	for p, xs := range prices {
		out = append(out, ProductPrice{Product: p, Trips: len(xs), MeanPrice: stat.Mean(xs, nil)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}
