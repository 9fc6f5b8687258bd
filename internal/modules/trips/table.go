// README: Cleaned trip table; immutable once built.
package trips

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is the cleaned dataset restricted to one provider's trips.
type Table struct {
	provider    string
	records     []Record
	rawRows     int
	fingerprint string
}

func newTable(provider string, records []Record, rawRows int) *Table {
	return &Table{provider: provider, records: records, rawRows: rawRows, fingerprint: fingerprint(provider, records)}
}

// fingerprint hashes every field at full precision, so rows that differ only past
// the CSV's sixth decimal still get distinct keys.
func fingerprint(provider string, records []Record) string {
	h := sha256.New()
	writeField(h, provider)
	h.Write([]byte{'\n'})
	for _, r := range records {
		writeField(h, strconv.FormatFloat(r.Distance, 'g', -1, 64))
		writeField(h, strconv.FormatFloat(r.Duration, 'g', -1, 64))
		writeField(h, strconv.FormatFloat(r.SurgeMultiplier, 'g', -1, 64))
		writeField(h, strconv.Itoa(r.Hour))
		writeField(h, r.CabType)
		writeField(h, r.Product)
		writeField(h, strconv.FormatFloat(r.Price, 'g', -1, 64))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField length-prefixes s so field boundaries are unambiguous.
func writeField(h hash.Hash, s string) {
	h.Write([]byte(strconv.Itoa(len(s))))
	h.Write([]byte{':'})
	h.Write([]byte(s))
}

func (t *Table) Provider() string { return t.provider }
func (t *Table) Len() int         { return len(t.records) }

// RawRows is the number of rows read before filtering and cleaning.
func (t *Table) RawRows() int { return t.rawRows }

// Fingerprint identifies the table contents.
func (t *Table) Fingerprint() string { return t.fingerprint }

// Records returns a copy of the cleaned records.
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Matrix returns the feature rows and price targets.
func (t *Table) Matrix() ([][]float64, []float64) {
	X := make([][]float64, len(t.records))
	y := make([]float64, len(t.records))
	for i, r := range t.records {
		X[i] = r.Features()
		y[i] = r.Price
	}
	return X, y
}

// Column returns one numeric column by name.
func (t *Table) Column(name string) []float64 {
	out := make([]float64, len(t.records))
	for i, r := range t.records {
		switch name {
		case ColDistance:
			out[i] = r.Distance
		case ColDuration:
			out[i] = r.Duration
		case ColSurge:
			out[i] = r.SurgeMultiplier
		case ColHour:
			out[i] = float64(r.Hour)
		case ColPrice:
			out[i] = r.Price
		default:
			return nil
		}
	}
	return out
}

// DataFrame exposes the table as a gota frame with the cleaned columns.
func (t *Table) DataFrame() dataframe.DataFrame {
	n := len(t.records)
	hours := make([]int, n)
	cabs := make([]string, n)
	products := make([]string, n)
	for i, r := range t.records {
		hours[i] = r.Hour
		cabs[i] = r.CabType
		products[i] = r.Product
	}
	return dataframe.New(
		series.New(t.Column(ColDistance), series.Float, ColDistance),
		series.New(t.Column(ColDuration), series.Float, ColDuration),
		series.New(t.Column(ColSurge), series.Float, ColSurge),
		series.New(hours, series.Int, ColHour),
		series.New(t.Column(ColPrice), series.Float, ColPrice),
		series.New(cabs, series.String, ColCabType),
		series.New(products, series.String, ColProduct),
	)
}

// WriteCSV writes the canonical encoding of the table. Identical inputs produce
// identical bytes.
func (t *Table) WriteCSV(w io.Writer) error {
	return t.DataFrame().WriteCSV(w)
}

// ForProduct returns the rows of one service (e.g. UberX). The match is
// case-insensitive; ok is false when the product has no rows.
func (t *Table) ForProduct(product string) (*Table, bool) {
	var out []Record
	for _, r := range t.records {
		if strings.EqualFold(r.Product, product) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return newTable(t.provider, out, t.rawRows), true
}

// Products lists the distinct product names in first-seen order.
func (t *Table) Products() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.records {
		if r.Product == "" || seen[r.Product] {
			continue
		}
		seen[r.Product] = true
		out = append(out, r.Product)
	}
	return out
}
