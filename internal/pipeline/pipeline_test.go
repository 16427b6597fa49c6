package pipeline

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/selivandex/stockspan/internal/indicators"
	"github.com/selivandex/stockspan/pkg/models"
)

func makeSeries(closes ...float64) []models.PricePoint {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	series := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		series[i] = models.PricePoint{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 0.5, Low: c - 0.5, Close: c,
			Volume: models.DefaultVolume,
		}
	}
	return series
}

func TestRun_AssemblesAlignedResult(t *testing.T) {
	series := makeSeries(10, 11, 12, 11, 13, 14, 12)

	result, err := Run(series, nil, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !reflect.DeepEqual(result.Windows, DefaultWindows) {
		t.Errorf("windows = %v, want %v", result.Windows, DefaultWindows)
	}
	if len(result.Series) != len(series) || len(result.Averages) != len(series) || len(result.Sentiment) != len(series) {
		t.Fatalf("misaligned lengths: %d/%d/%d", len(result.Series), len(result.Averages), len(result.Sentiment))
	}
	if err := result.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	wantSpans := indicators.ComputeSpans(models.Closes(series))
	for i, p := range result.Series {
		if p.Span != wantSpans[i] {
			t.Errorf("point %d span=%d, want %d", i, p.Span, wantSpans[i])
		}
	}
	if result.Correlation < -1 || result.Correlation > 1 || math.IsNaN(result.Correlation) {
		t.Errorf("correlation %.4f out of range", result.Correlation)
	}
	if result.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("run id should be set")
	}
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	series := makeSeries(3, 2, 1)
	if _, err := Run(series, []int{2}, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, p := range series {
		if p.Span != 0 {
			t.Errorf("input point %d mutated", i)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	src := rand.New(rand.NewSource(1))

	if _, err := Run(nil, nil, src); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}

	bad := makeSeries(1, 2, 3)
	bad[1].Close = math.NaN()
	if _, err := Run(bad, nil, src); !errors.Is(err, ErrNonFinitePrice) {
		t.Errorf("expected ErrNonFinitePrice, got %v", err)
	}

	if _, err := Run(makeSeries(1, 2), []int{0}, src); !errors.Is(err, indicators.ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestRunWithOptions(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	result, err := RunWithOptions(makeSeries(1, 2, 3), rand.New(rand.NewSource(5)), Options{
		Symbol:  "ACME",
		Windows: []int{3, 2, 3},
		Now:     func() time.Time { return fixed },
	})
	if err != nil {
		t.Fatalf("RunWithOptions: %v", err)
	}

	if result.Symbol != "ACME" {
		t.Errorf("symbol = %q", result.Symbol)
	}
	if !result.GeneratedAt.Equal(fixed) {
		t.Errorf("generated at %v, want %v", result.GeneratedAt, fixed)
	}
	if !reflect.DeepEqual(result.Windows, []int{2, 3}) {
		t.Errorf("windows = %v, want [2 3]", result.Windows)
	}
}

func TestRun_DeterministicWithSeed(t *testing.T) {
	series := makeSeries(5, 6, 7, 6, 8)

	a, err := Run(series, nil, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(series, nil, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Sentiment, b.Sentiment) || a.Correlation != b.Correlation {
		t.Error("same seed should give identical sentiment and correlation")
	}
}
