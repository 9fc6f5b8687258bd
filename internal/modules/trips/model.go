// README: Trip record and typed trip table with its fixed schema.
package trips

import "errors"

var (
	ErrMalformedInput = errors.New("malformed input")
)

// Column names of the raw dataset.
const (
	ColCabType   = "cab_type"
	ColProduct   = "name"
	ColDistance  = "distance"
	ColDuration  = "duration"
	ColSurge     = "surge_multiplier"
	ColHour      = "hour"
	ColTimestamp = "timestamp"
	ColDatetime  = "datetime"
	ColPrice     = "price"
)

// DefaultProvider is the cab type kept by the cleaner.
const DefaultProvider = "Uber"

// AverageSpeedMph is used to derive a trip duration from its distance.
const AverageSpeedMph = 20.0

// FeatureNames are the model inputs, in matrix column order.
var FeatureNames = []string{ColDistance, ColDuration, ColSurge, ColHour}

// Schema declares the raw columns a dataset must provide. HourSources lists the
// columns an hour of day may be taken from, in order of preference.
type Schema struct {
	Required    []string
	HourSources []string
}

var RawSchema = Schema{
	Required:    []string{ColCabType, ColDistance, ColSurge, ColPrice},
	HourSources: []string{ColHour, ColTimestamp, ColDatetime},
}

// Record is one cleaned historical ride.
type Record struct {
	Distance        float64 // miles
	Duration        float64 // minutes
	SurgeMultiplier float64
	Hour            int
	CabType         string
	Product         string
	Price           float64
}

// Features returns the record as a model input row.
func (r Record) Features() []float64 {
	return []float64{r.Distance, r.Duration, r.SurgeMultiplier, float64(r.Hour)}
}

// DurationFor estimates trip minutes from miles at AverageSpeedMph.
func DurationFor(distance float64) float64 {
	return distance / AverageSpeedMph * 60
}
