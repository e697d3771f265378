package marketdata

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `date,instrument,price
2024-01-02,ADS.DE,184.20
2024-01-02,SAP.DE,139.80
2024-01-03,ADS.DE,182.50
2024-01-03,SAP.DE,141.10
2024-01-04,ADS.DE,185.00
2024-01-04,SAP.DE,140.60
`

func TestParseCSV(t *testing.T) {
	series, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("series count = %d, want 2", len(series))
	}

	// Instrument-sorted output.
	if series[0].Instrument() != "ADS.DE" || series[1].Instrument() != "SAP.DE" {
		t.Errorf("instruments = [%s %s]", series[0].Instrument(), series[1].Instrument())
	}
	if series[0].Len() != 3 {
		t.Errorf("ADS.DE observations = %d, want 3", series[0].Len())
	}
	if series[0].Price(0) != 184.20 {
		t.Errorf("first ADS.DE price = %f, want 184.20", series[0].Price(0))
	}
	last := series[1].Last()
	if last.Price != 140.60 {
		t.Errorf("last SAP.DE price = %f, want 140.60", last.Price)
	}
}

func TestParseCSVRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "timestamp,symbol,close\n2024-01-02,ADS.DE,184.20\n"},
		{"header only", "date,instrument,price\n"},
		{"bad date", "date,instrument,price\n02/01/2024,ADS.DE,184.20\n"},
		{"bad price", "date,instrument,price\n2024-01-02,ADS.DE,lots\n"},
		{"empty instrument", "date,instrument,price\n2024-01-02,,184.20\n"},
		{"short row", "date,instrument,price\n2024-01-02,ADS.DE\n"},
		{"negative price", "date,instrument,price\n2024-01-02,ADS.DE,-184.20\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tc.input)); err == nil {
				t.Errorf("Expected error for %s input", tc.name)
			}
		})
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	series, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV error: %v", err)
	}
	if len(series) != 2 {
		t.Errorf("series count = %d, want 2", len(series))
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadFilesMergesPerInstrument(t *testing.T) {
	dir := t.TempDir()

	// One file per instrument plus a later shard for the first.
	files := map[string]string{
		"ads.csv": `date,instrument,price
2024-01-02,ADS.DE,184.20
2024-01-03,ADS.DE,182.50
`,
		"sap.csv": `date,instrument,price
2024-01-02,SAP.DE,139.80
2024-01-03,SAP.DE,141.10
2024-01-04,SAP.DE,140.60
`,
		"ads_later.csv": `date,instrument,price
2024-01-04,ADS.DE,185.00
`,
	}
	paths := make([]string, 0, len(files))
	for name, body := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		paths = append(paths, p)
	}

	series, err := LoadFiles(context.Background(), paths...)
	if err != nil {
		t.Fatalf("LoadFiles error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("series count = %d, want 2", len(series))
	}

	// Shards merged and re-sorted: ADS.DE spans all three dates.
	if series[0].Instrument() != "ADS.DE" || series[0].Len() != 3 {
		t.Errorf("ADS.DE = %d observations, want 3", series[0].Len())
	}
	if series[0].Last().Price != 185.00 {
		t.Errorf("last ADS.DE price = %f, want 185.00", series[0].Last().Price)
	}
}

func TestLoadAlignedDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"ADS.DE.csv": `date,instrument,price
2024-01-02,ADS.DE,100.00
2024-01-03,ADS.DE,110.00
2024-01-04,ADS.DE,99.00
`,
		"SAP.DE.csv": `date,instrument,price
2024-01-02,SAP.DE,50.00
2024-01-03,SAP.DE,55.00
2024-01-04,SAP.DE,44.00
`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	// Requested order is not alphabetical: the column order must follow the
	// request, since portfolio weights are matched by position.
	ar, err := LoadAlignedDir(context.Background(), dir, []string{"SAP.DE", "ADS.DE"}, SimpleReturns)
	if err != nil {
		t.Fatalf("LoadAlignedDir error: %v", err)
	}
	if ar.Instruments[0] != "SAP.DE" || ar.Instruments[1] != "ADS.DE" {
		t.Errorf("instrument order = %v, want requested order", ar.Instruments)
	}
	if ar.Observations() != 2 {
		t.Fatalf("observations = %d, want 2", ar.Observations())
	}
	wantSAP := []float64{0.10, -0.20}
	for i, want := range wantSAP {
		if math.Abs(ar.Columns[0][i]-want) > 1e-12 {
			t.Errorf("SAP.DE return[%d] = %f, want %f", i, ar.Columns[0][i], want)
		}
	}
	if math.Abs(ar.Columns[1][0]-0.10) > 1e-12 {
		t.Errorf("ADS.DE return[0] = %f, want 0.10", ar.Columns[1][0])
	}
}

func TestLoadAlignedDirMissingInstrumentFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ADS.DE.csv"), []byte(`date,instrument,price
2024-01-02,ADS.DE,100.00
2024-01-03,ADS.DE,110.00
`), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadAlignedDir(context.Background(), dir, []string{"ADS.DE", "GHOST.DE"}, LogReturns)
	if err == nil {
		t.Fatal("Expected error for instrument without a price file")
	}
	if !strings.Contains(err.Error(), "no price data for instrument GHOST.DE") {
		t.Errorf("error should name the missing instrument, got: %v", err)
	}

	if _, err := LoadAlignedDir(context.Background(), dir, nil, LogReturns); err == nil {
		t.Error("Expected error for empty instrument list")
	}
}

func TestLoadAlignedDirWrongSeriesName(t *testing.T) {
	dir := t.TempDir()

	// File exists under the requested name but its rows belong to a
	// different instrument.
	if err := os.WriteFile(filepath.Join(dir, "GHOST.DE.csv"), []byte(`date,instrument,price
2024-01-02,OTHER.DE,100.00
2024-01-03,OTHER.DE,110.00
`), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}

	_, err := LoadAlignedDir(context.Background(), dir, []string{"GHOST.DE"}, LogReturns)
	if err == nil {
		t.Fatal("Expected error when the file holds no series for its instrument")
	}
	if !strings.Contains(err.Error(), "holds no series named GHOST.DE") {
		t.Errorf("error should name the mismatched instrument, got: %v", err)
	}
}

func TestLoadFilesFailsWhenAnyFileFails(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	if err := os.WriteFile(good, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	missing := filepath.Join(dir, "missing.csv")

	_, err := LoadFiles(context.Background(), good, missing)
	if err == nil {
		t.Fatal("Expected error when one input file is missing")
	}
	if !strings.Contains(err.Error(), "missing.csv") {
		t.Errorf("error should name the failing file, got: %v", err)
	}

	if _, err := LoadFiles(context.Background()); err == nil {
		t.Error("Expected error for empty path list")
	}
}
