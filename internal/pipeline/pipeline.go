package pipeline

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selivandex/stockspan/internal/indicators"
	"github.com/selivandex/stockspan/internal/sentiment"
	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/models"
)

// DefaultWindows are the moving average sizes used when none are configured
var DefaultWindows = []int{5, 10, 20}

var (
	// ErrEmptySeries is returned when the pipeline is handed no price points
	ErrEmptySeries = errors.New("empty price series")
	// ErrNonFinitePrice is returned for NaN or infinite price fields
	ErrNonFinitePrice = errors.New("non-finite price")
)

// Options tune a single pipeline run
type Options struct {
	Symbol  string
	Windows []int
	Now     func() time.Time
}

// Run executes spans, moving averages, sentiment and correlation over series
// and assembles the aligned result. The input slice is not modified.
func Run(series []models.PricePoint, windows []int, src sentiment.Source) (*models.AnalysisResult, error) {
	return RunWithOptions(series, src, Options{Windows: windows})
}

// RunWithOptions is Run with a display symbol and an injectable clock
func RunWithOptions(series []models.PricePoint, src sentiment.Source, opts Options) (*models.AnalysisResult, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	if err := checkFinite(series); err != nil {
		return nil, err
	}

	windows := opts.Windows
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	windows, err := indicators.NormalizeWindows(windows)
	if err != nil {
		return nil, fmt.Errorf("pipeline windows: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	started := time.Now()

	annotated := indicators.AnnotateSpans(series)

	averages, err := indicators.ComputeAverages(series, windows)
	if err != nil {
		return nil, fmt.Errorf("compute averages: %w", err)
	}

	samples := sentiment.NewGenerator(src).Generate(series)

	correlation := sentiment.Correlate(models.Scores(samples), sentiment.SpanSeries(annotated))

	result := &models.AnalysisResult{
		RunID:       uuid.New(),
		Symbol:      opts.Symbol,
		Windows:     windows,
		Series:      annotated,
		Averages:    averages,
		Sentiment:   samples,
		Correlation: correlation,
		GeneratedAt: now(),
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("assemble result: %w", err)
	}

	logger.Debug("pipeline run complete",
		zap.String("run_id", result.RunID.String()),
		zap.Int("points", len(annotated)),
		zap.Ints("windows", windows),
		zap.Float64("correlation", correlation),
		zap.Duration("took", time.Since(started)),
	)

	return result, nil
}

func checkFinite(series []models.PricePoint) error {
	for i, p := range series {
		for _, v := range []float64{p.Open, p.High, p.Low, p.Close, p.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w at index %d (%s)", ErrNonFinitePrice, i, p.Date.Format(models.DateLayout))
			}
		}
	}
	return nil
}
