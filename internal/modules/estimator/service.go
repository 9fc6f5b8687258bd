// README: Estimator service fits the fare model on a session table and predicts one query.
package estimator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"farecast/internal/ml/boost"
	"farecast/internal/modules/trips"
	"farecast/internal/types"
)

// DistanceResolver measures a driving route in miles.
type DistanceResolver interface {
	DistanceMiles(ctx context.Context, origin, destination string) (float64, error)
}

type Service struct {
	params boost.Params
	models *lru.Cache[string, *boost.Model]
	cache  PredictionCache
	routes DistanceResolver
}

// NewService builds an estimator. A modelCacheSize of 0 refits on every request;
// cache and routes may be nil.
func NewService(params boost.Params, modelCacheSize int, cache PredictionCache, routes DistanceResolver) (*Service, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Service{params: params, cache: cache, routes: routes}
	if modelCacheSize > 0 {
		models, err := lru.New[string, *boost.Model](modelCacheSize)
		if err != nil {
			return nil, err
		}
		s.models = models
	}
	return s, nil
}

// Estimate predicts the fare of one trip from the session's table.
func (s *Service) Estimate(ctx context.Context, table *trips.Table, in QueryInput) (Estimate, error) {
	est, err := s.estimate(ctx, table, in)
	switch {
	case err == nil:
		estimatesTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrRouteUnavailable):
		estimatesTotal.WithLabelValues("invalid").Inc()
	default:
		estimatesTotal.WithLabelValues("error").Inc()
	}
	return est, err
}

func (s *Service) estimate(ctx context.Context, table *trips.Table, in QueryInput) (Estimate, error) {
	if table == nil || table.Len() == 0 {
		return Estimate{}, fmt.Errorf("%w: no trips", ErrInsufficientData)
	}
	q, err := s.resolve(ctx, in)
	if err != nil {
		return Estimate{}, err
	}

	product := strings.TrimSpace(in.Product)
	if product != "" {
		sub, ok := table.ForProduct(product)
		if !ok {
			return Estimate{}, fmt.Errorf("%w: unknown product %q", ErrInvalidQuery, product)
		}
		table = sub
	}

	est := Estimate{Query: q, Product: product}
	key := predictionKey(table.Fingerprint(), s.params.Key(), q)
	if s.cache != nil {
		price, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("prediction cache get failed: %v", err)
		} else if ok {
			cacheHits.WithLabelValues("prediction").Inc()
			est.Value = price
			est.Price = types.MoneyFromFloat(price, types.CurrencyUSD)
			est.PredictionCached = true
			return est, nil
		}
	}

	model, cached, err := s.Model(table)
	if err != nil {
		return Estimate{}, err
	}
	price := model.Predict(q.Features())
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return Estimate{}, fmt.Errorf("model produced non-finite price for %+v", q)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, price); err != nil {
			log.Printf("prediction cache set failed: %v", err)
		}
	}

	est.Value = price
	est.Price = types.MoneyFromFloat(price, types.CurrencyUSD)
	est.ModelCached = cached
	est.Iterations = model.NIter()
	return est, nil
}

// Model returns the fitted model for the table, reusing a memoised fit when the
// same table and parameters were seen before.
func (s *Service) Model(table *trips.Table) (*boost.Model, bool, error) {
	key := table.Fingerprint() + "|" + s.params.Key()
	if s.models != nil {
		if m, ok := s.models.Get(key); ok {
			cacheHits.WithLabelValues("model").Inc()
			return m, true, nil
		}
	}

	start := time.Now()
	X, y := table.Matrix()
	m, err := boost.Fit(X, y, s.params)
	if err != nil {
		return nil, false, err
	}
	fitsTotal.Inc()
	fitDuration.Observe(time.Since(start).Seconds())
	log.Printf("fitted fare model: rows=%d iterations=%d took=%s", len(y), m.NIter(), time.Since(start))

	if s.models != nil {
		s.models.Add(key, m)
	}
	return m, false, nil
}

func (s *Service) resolve(ctx context.Context, in QueryInput) (Query, error) {
	if in.Hour < 0 || in.Hour > 23 {
		return Query{}, fmt.Errorf("%w: hour %d outside 0-23", ErrInvalidQuery, in.Hour)
	}

	distance := in.DistanceMiles
	if distance == 0 && (in.Origin != "" || in.Destination != "") {
		if in.Origin == "" || in.Destination == "" {
			return Query{}, fmt.Errorf("%w: origin and destination are both required", ErrInvalidQuery)
		}
		if s.routes == nil {
			return Query{}, ErrRouteUnavailable
		}
		d, err := s.routes.DistanceMiles(ctx, in.Origin, in.Destination)
		if err != nil {
			return Query{}, fmt.Errorf("resolve route: %w", err)
		}
		distance = clamp(math.Round(d*10)/10, MinDistance, MaxDistance)
	}

	if math.IsNaN(distance) || distance < MinDistance || distance > MaxDistance {
		return Query{}, fmt.Errorf("%w: distance %.2f outside [%.1f, %.1f]", ErrInvalidQuery, distance, MinDistance, MaxDistance)
	}
	return NewQuery(distance, in.Hour), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
