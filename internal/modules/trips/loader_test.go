package trips

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const mixedCSV = `id,hour,cab_type,name,price,distance,surge_multiplier
a1,17,Uber,UberX,11.5,3.2,1.0
a2,9,Lyft,Lyft,9.0,2.1,1.0
a3,23,uber,Black,27.0,4.4,1.0
a4,8,Uber,Taxi,NA,1.1,1.0
a5,12,Lyft,Lux,22.5,3.0,1.25
a6,30,Uber,UberXL,15.0,2.0,1.0
a7,6,UBER,WAV,8.5,0.9,1.0
`

func TestLoadKeepsOnlyTargetProvider(t *testing.T) {
	tbl, err := Load(strings.NewReader(mixedCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.RawRows() != 7 {
		t.Fatalf("RawRows = %d, want 7", tbl.RawRows())
	}
	// a4 has no price, a6 has an impossible hour
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}
	if tbl.Len() > tbl.RawRows() {
		t.Fatal("cleaning must not add rows")
	}
	for _, r := range tbl.Records() {
		if !strings.EqualFold(r.CabType, DefaultProvider) {
			t.Errorf("record with cab type %q survived cleaning", r.CabType)
		}
	}
}

func TestLoadDerivesDurationAndKeepsProduct(t *testing.T) {
	tbl, err := Load(strings.NewReader(mixedCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first := tbl.Records()[0]
	if first.Duration != DurationFor(3.2) {
		t.Fatalf("Duration = %v, want %v", first.Duration, DurationFor(3.2))
	}
	if first.Product != "UberX" || first.Hour != 17 || first.SurgeMultiplier != 1.0 {
		t.Fatalf("unexpected first record %+v", first)
	}
}

func TestDurationFor(t *testing.T) {
	if got := DurationFor(3.5); got != 10.5 {
		t.Fatalf("DurationFor(3.5) = %v, want 10.5", got)
	}
}

func TestLoadUsesDurationColumnWhenPresent(t *testing.T) {
	csv := "cab_type,distance,duration,surge_multiplier,hour,price\nUber,2.0,14,1.0,10,9.5\nUber,3.0,,1.0,11,12\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (row with blank duration dropped)", tbl.Len())
	}
	if tbl.Records()[0].Duration != 14 {
		t.Fatalf("Duration = %v, want 14", tbl.Records()[0].Duration)
	}
}

func TestLoadDerivesHourFromTimestamp(t *testing.T) {
	// 1544952607 = 2018-12-16 09:30:07 UTC
	csv := "timestamp,cab_type,price,distance,surge_multiplier\n1544952607.89,Uber,10.5,2.5,1.0\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tbl.Records()[0].Hour; got != 9 {
		t.Fatalf("Hour = %d, want 9", got)
	}
}

func TestLoadDerivesHourFromDatetime(t *testing.T) {
	csv := "datetime,cab_type,price,distance,surge_multiplier\n2018-11-26 03:40:46,Uber,7,1.2,1.0\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tbl.Records()[0].Hour; got != 3 {
		t.Fatalf("Hour = %d, want 3", got)
	}
}

func TestLoadMissingColumnsIsMalformed(t *testing.T) {
	cases := map[string]string{
		"no price":      "cab_type,distance,surge_multiplier,hour\nUber,1.0,1.0,3\n",
		"no hour":       "cab_type,distance,surge_multiplier,price\nUber,1.0,1.0,3\n",
		"no cab type":   "distance,surge_multiplier,hour,price\n1.0,1.0,3,8\n",
		"not tabular":   "",
		"only provider": "cab_type\nUber\n",
	}
	for name, csv := range cases {
		t.Run(name, func(t *testing.T) {
			tbl, err := Load(strings.NewReader(csv), LoadOptions{})
			if !errors.Is(err, ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
			if tbl != nil {
				t.Fatal("no table may be returned for malformed input")
			}
		})
	}
}

func TestLoadMissingColumnsNamesThem(t *testing.T) {
	_, err := Load(strings.NewReader("cab_type,hour\nUber,3\n"), LoadOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, col := range []string{ColDistance, ColSurge, ColPrice} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not name %s", err, col)
		}
	}
}

func TestLoadWithoutProviderRowsIsMalformed(t *testing.T) {
	csv := "cab_type,distance,surge_multiplier,hour,price\nLyft,1.0,1.0,3,8\n"
	if _, err := Load(strings.NewReader(csv), LoadOptions{}); !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestLoadCustomProviderAndDelimiter(t *testing.T) {
	csv := "cab_type;distance;surge_multiplier;hour;price\nLyft;1.0;1.0;3;8\nUber;2.0;1.0;4;9\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{Provider: "lyft", Delimiter: ';'})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 1 || tbl.Records()[0].CabType != "Lyft" {
		t.Fatalf("unexpected records %+v", tbl.Records())
	}
	if tbl.Provider() != "lyft" {
		t.Fatalf("Provider = %q, want lyft", tbl.Provider())
	}
}

func TestLoadHeaderCaseInsensitive(t *testing.T) {
	csv := "Cab_Type,Distance,Surge_Multiplier,Hour,Price\nUber,1.5,1.0,7,8.5\n"
	tbl, err := Load(strings.NewReader(csv), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
}

func TestCleaningIsIdempotent(t *testing.T) {
	a, err := Load(strings.NewReader(mixedCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("load a: %v", err)
	}
	b, err := Load(strings.NewReader(mixedCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("load b: %v", err)
	}
	var bufA, bufB bytes.Buffer
	if err := a.WriteCSV(&bufA); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := b.WriteCSV(&bufB); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
		t.Fatalf("cleaned tables differ:\n%s\n---\n%s", bufA.String(), bufB.String())
	}
	if a.Fingerprint() != b.Fingerprint() || a.Fingerprint() == "" {
		t.Fatalf("fingerprints differ or empty: %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestMatrixColumnOrder(t *testing.T) {
	tbl, err := Load(strings.NewReader(mixedCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	X, y := tbl.Matrix()
	if len(X) != tbl.Len() || len(y) != tbl.Len() {
		t.Fatalf("matrix shape %dx? / %d, want %d rows", len(X), len(y), tbl.Len())
	}
	if len(X[0]) != len(FeatureNames) {
		t.Fatalf("features = %d, want %d", len(X[0]), len(FeatureNames))
	}
	if X[0][0] != 3.2 || X[0][3] != 17 || y[0] != 11.5 {
		t.Fatalf("unexpected first row %v -> %v", X[0], y[0])
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rideshare.csv")
	if err := os.WriteFile(path, []byte(mixedCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src := FileSource{Path: path}
	tbl, err := src.Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tbl.Len())
	}

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "absent.csv")}.Load(context.Background(), LoadOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadRecords(t *testing.T) {
	records := [][]string{
		{ColCabType, ColProduct, ColDistance, ColSurge, ColHour, ColPrice},
		{"Uber", "UberX", "2.2", "1.0", "14", "10"},
		{"Uber", "", "", "1.0", "15", "10"},
	}
	tbl, err := LoadRecords(records, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
}

func TestForProduct(t *testing.T) {
	tbl, err := Load(strings.NewReader(mixedCSV), LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tbl.Products(); len(got) != 3 || got[0] != "UberX" {
		t.Fatalf("Products = %v", got)
	}
	sub, ok := tbl.ForProduct("black")
	if !ok {
		t.Fatal("ForProduct(black) found no rows")
	}
	if sub.Len() != 1 || sub.Records()[0].Price != 27.0 {
		t.Fatalf("unexpected subset %+v", sub.Records())
	}
	if sub.Fingerprint() == tbl.Fingerprint() {
		t.Fatal("subset must have its own fingerprint")
	}
	if _, ok := tbl.ForProduct("Pool"); ok {
		t.Fatal("unknown product must not match")
	}
}

func TestFingerprintKeepsFullPrecision(t *testing.T) {
	load := func(price string) *Table {
		t.Helper()
		tbl, err := LoadRecords([][]string{
			{ColCabType, ColProduct, ColDistance, ColSurge, ColHour, ColPrice},
			{"Uber", "UberX", "2.2", "1.0", "14", price},
		}, LoadOptions{})
		if err != nil {
			t.Fatalf("load %s: %v", price, err)
		}
		return tbl
	}
	a, b := load("10.0000001"), load("10.0000004")

	var bufA, bufB bytes.Buffer
	if err := a.WriteCSV(&bufA); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := b.WriteCSV(&bufB); err != nil {
		t.Fatalf("write b: %v", err)
	}
	if !bytes.Equal(bufA.Bytes(), bufB.Bytes()) {
		t.Fatalf("expected identical six-decimal CSV, got\n%s\n---\n%s", bufA.String(), bufB.String())
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatalf("prices 10.0000001 and 10.0000004 share fingerprint %s", a.Fingerprint())
	}
	if a.Fingerprint() != load("10.0000001").Fingerprint() {
		t.Fatal("same input must give the same fingerprint")
	}
}
