package market

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/selivandex/stockspan/pkg/models"
)

func TestLoadCSV(t *testing.T) {
	input := `Date,Open,High,Low,Close,Volume
2024-01-03,11,12,10,11.5,2000
2024-01-01,10,11,9,10.5,1000
2024-01-02,10.5,11.5,10,11,
`
	series, report, err := LoadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}

	if report.Rows != 3 || report.Dropped != 0 {
		t.Errorf("report = %+v, want 3 rows 0 dropped", report)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}

	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	for i, p := range series {
		if got := p.Date.Format(models.DateLayout); got != wantDates[i] {
			t.Errorf("point %d date %s, want %s", i, got, wantDates[i])
		}
	}
	if series[1].Volume != models.DefaultVolume {
		t.Errorf("blank volume should default, got %.0f", series[1].Volume)
	}
	if series[2].Close != 11.5 || series[2].Volume != 2000 {
		t.Errorf("unexpected last point: %+v", series[2])
	}
}

func TestLoadCSV_HeaderCaseAndOrder(t *testing.T) {
	input := "close,DATE,low,High,OPEN\n5,2024-02-01,4,6,4.5\n"

	series, _, err := LoadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	want := models.PricePoint{Open: 4.5, High: 6, Low: 4, Close: 5, Volume: models.DefaultVolume}
	got := series[0]
	got.Date = want.Date
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadCSV_DropsInvalidRows(t *testing.T) {
	input := `Date,Open,High,Low,Close
2024-01-01,10,11,9,10.5
not-a-date,10,11,9,10.5
2024-01-03,abc,11,9,10.5
2024-01-04,10,11,9
2024-01-05,10,11,9,NaN
2024-01-06,10,11,9,10
`
	series, report, err := LoadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(series) != 2 {
		t.Errorf("expected 2 valid points, got %d", len(series))
	}
	if report.Rows != 6 || report.Dropped != 4 {
		t.Errorf("report = %+v, want 6 rows 4 dropped", report)
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		substr  string
	}{
		{"empty", "", ErrNoValidRows, ""},
		{"header only", "Date,Open,High,Low,Close\n", ErrNoValidRows, ""},
		{"all invalid", "Date,Open,High,Low,Close\nx,1,1,1,1\n", ErrNoValidRows, ""},
		{"missing column", "Date,Open,High,Close\n2024-01-01,1,1,1\n", nil, "low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadCSV(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.substr != "" && !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err, tt.substr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte("Date,Open,High,Low,Close\n2024-01-01,1,2,0.5,1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	series, _, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(series) != 1 || series[0].Close != 1.5 {
		t.Errorf("unexpected series: %+v", series)
	}

	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSynthetic_Generate(t *testing.T) {
	a := NewSynthetic(5).Generate(120)
	b := NewSynthetic(5).Generate(120)

	if len(a) != 120 {
		t.Fatalf("expected 120 points, got %d", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce the same series")
	}

	for i, p := range a {
		if p.Low > p.Open || p.Low > p.Close || p.High < p.Open || p.High < p.Close {
			t.Errorf("point %d has inconsistent OHLC: %+v", i, p)
		}
		if p.Close <= 0 {
			t.Errorf("point %d has non-positive close", i)
		}
		if i > 0 && !a[i].Date.After(a[i-1].Date) {
			t.Errorf("point %d not after previous date", i)
		}
	}

	if NewSynthetic(1).Generate(0) != nil {
		t.Error("zero length should return nil")
	}
}
