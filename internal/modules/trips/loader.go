// README: Loader and cleaner: raw delimited trips -> provider-filtered typed table.
package trips

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const datetimeLayout = "2006-01-02 15:04:05"

type LoadOptions struct {
	Provider  string
	Delimiter rune
}

func (o LoadOptions) withDefaults() LoadOptions {
	if strings.TrimSpace(o.Provider) == "" {
		o.Provider = DefaultProvider
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	return o
}

// Load reads a delimited trip file and returns the cleaned table for the target provider.
// Missing required columns, unreadable input, or the absence of usable provider rows
// fail with ErrMalformedInput and no table.
func Load(r io.Reader, opts LoadOptions) (*Table, error) {
	opts = opts.withDefaults()
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(opts.Delimiter),
		dataframe.WithLazyQuotes(true),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, df.Err)
	}
	return Clean(df, opts)
}

// LoadFile loads a dataset from a fixed local path.
func LoadFile(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, opts)
}

// LoadRecords cleans raw string records whose first row is the header.
func LoadRecords(records [][]string, opts LoadOptions) (*Table, error) {
	opts = opts.withDefaults()
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, df.Err)
	}
	return Clean(df, opts)
}

// Clean validates the raw frame against RawSchema, keeps the provider's rows, coerces
// types and drops rows that cannot be used for training.
func Clean(df dataframe.DataFrame, opts LoadOptions) (*Table, error) {
	opts = opts.withDefaults()
	rawRows := df.Nrow()

	present := make(map[string]bool)
	for _, n := range df.Names() {
		present[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var missing []string
	for _, c := range RawSchema.Required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	hourCol := ""
	for _, c := range RawSchema.HourSources {
		if present[c] {
			hourCol = c
			break
		}
	}
	if hourCol == "" {
		missing = append(missing, strings.Join(RawSchema.HourSources, "|"))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns: %s", ErrMalformedInput, strings.Join(missing, ", "))
	}

	for _, n := range df.Names() {
		if norm := strings.ToLower(strings.TrimSpace(n)); norm != n {
			df = df.Rename(norm, n)
		}
	}
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, df.Err)
	}

	provider := strings.TrimSpace(opts.Provider)
	df = df.Filter(dataframe.F{
		Colname:    ColCabType,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return strings.EqualFold(strings.TrimSpace(el.String()), provider)
		},
	})
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%w: no rows for provider %q", ErrMalformedInput, provider)
	}

	cabs := df.Col(ColCabType).Records()
	dist := df.Col(ColDistance).Float()
	price := df.Col(ColPrice).Float()
	surge := df.Col(ColSurge).Float()
	hourRaw := df.Col(hourCol).Records()

	var duration []float64
	if present[ColDuration] {
		duration = df.Col(ColDuration).Float()
	}
	var products []string
	if present[ColProduct] {
		products = df.Col(ColProduct).Records()
	}

	records := make([]Record, 0, df.Nrow())
	for i := 0; i < df.Nrow(); i++ {
		hour, ok := parseHour(hourCol, hourRaw[i])
		if !ok {
			continue
		}
		d := dist[i]
		dur := DurationFor(d)
		if duration != nil {
			dur = duration[i]
		}
		if !finite(d, price[i], surge[i], dur) {
			continue
		}
		if d <= 0 || price[i] < 0 || surge[i] < 1 || dur < 0 {
			continue
		}
		rec := Record{
			Distance:        d,
			Duration:        dur,
			SurgeMultiplier: surge[i],
			Hour:            hour,
			CabType:         strings.TrimSpace(cabs[i]),
			Price:           price[i],
		}
		if products != nil && products[i] != "NaN" {
			rec.Product = strings.TrimSpace(products[i])
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no usable rows for provider %q", ErrMalformedInput, provider)
	}
	return newTable(provider, records, rawRows), nil
}

func parseHour(col, raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	switch col {
	case ColHour:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v != math.Trunc(v) || v < 0 || v > 23 {
			return 0, false
		}
		return int(v), true
	case ColTimestamp:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return time.Unix(int64(v), 0).UTC().Hour(), true
	case ColDatetime:
		ts, err := time.Parse(datetimeLayout, raw)
		if err != nil {
			return 0, false
		}
		return ts.Hour(), true
	}
	return 0, false
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
