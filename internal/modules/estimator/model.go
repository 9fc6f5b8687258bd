// README: Estimator inputs, the query point and the estimate result.
package estimator

import (
	"errors"

	"farecast/internal/ml/boost"
	"farecast/internal/modules/trips"
	"farecast/internal/types"
)

const (
	MinDistance  = 0.1
	MaxDistance  = 8.0
	DefaultSurge = 1.0
)

var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrInsufficientData = boost.ErrInsufficientData
	ErrRouteUnavailable = errors.New("route lookup not configured")
)

// QueryInput is what the user supplies: a distance (or a route to measure) and an hour.
type QueryInput struct {
	DistanceMiles float64
	Hour          int
	Product       string
	Origin        string
	Destination   string
}

// Query is the single feature row the model is evaluated on.
type Query struct {
	Distance        float64 `json:"distance"`
	Duration        float64 `json:"duration"`
	SurgeMultiplier float64 `json:"surge_multiplier"`
	Hour            int     `json:"hour"`
}

// NewQuery derives the duration from the distance and fixes the surge at 1.0.
func NewQuery(distance float64, hour int) Query {
	return Query{
		Distance:        distance,
		Duration:        trips.DurationFor(distance),
		SurgeMultiplier: DefaultSurge,
		Hour:            hour,
	}
}

func (q Query) Features() []float64 {
	return []float64{q.Distance, q.Duration, q.SurgeMultiplier, float64(q.Hour)}
}

type Estimate struct {
	// Value is the raw model output; Price is Value rounded to cents.
	Value            float64
	Price            types.Money
	Query            Query
	Product          string
	ModelCached      bool
	PredictionCached bool
	Iterations       int
}

// Formatted renders the raw prediction as currency with two decimals.
func (e Estimate) Formatted() string {
	return types.FormatAmount(e.Value, e.Price.Currency)
}
