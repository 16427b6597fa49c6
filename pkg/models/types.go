package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used by ingestion and answers
const DateLayout = "2006-01-02"

// DefaultVolume is used when an ingested row carries no volume
const DefaultVolume = 1_000_000

// ErrMisaligned is returned when result sequences disagree in length or dates
var ErrMisaligned = errors.New("analysis result sequences are misaligned")

// NewDecimal creates decimal from float64
func NewDecimal(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// PricePoint represents one daily OHLCV bar.
// Span is 0 until filled by the span calculator.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
	Span   int       `json:"span,omitempty"`
}

// AverageRecord holds the moving averages for one date keyed by window size
type AverageRecord struct {
	Date     time.Time       `json:"date"`
	Averages map[int]float64 `json:"averages"`
}

// AnalysisResult aggregates everything derived from one price series.
// Series, Averages and Sentiment always share length and date order.
type AnalysisResult struct {
	RunID       uuid.UUID         `json:"run_id"`
	Symbol      string            `json:"symbol"`
	Windows     []int             `json:"windows"`
	Series      []PricePoint      `json:"series"`
	Averages    []AverageRecord   `json:"averages"`
	Sentiment   []SentimentSample `json:"sentiment"`
	Correlation float64           `json:"correlation"` // sentiment vs span, -1..1
	GeneratedAt time.Time         `json:"generated_at"`
}

// Validate checks that all sequences line up with the series
func (r *AnalysisResult) Validate() error {
	n := len(r.Series)
	if len(r.Averages) != n || len(r.Sentiment) != n {
		return fmt.Errorf("%w: series=%d averages=%d sentiment=%d",
			ErrMisaligned, n, len(r.Averages), len(r.Sentiment))
	}
	for i := range r.Series {
		date := r.Series[i].Date
		if !r.Averages[i].Date.Equal(date) || !r.Sentiment[i].Date.Equal(date) {
			return fmt.Errorf("%w: date mismatch at index %d", ErrMisaligned, i)
		}
	}
	return nil
}

// Empty reports whether the result carries no price data
func (r *AnalysisResult) Empty() bool {
	return r == nil || len(r.Series) == 0
}

// Latest returns the most recent price point
func (r *AnalysisResult) Latest() (PricePoint, bool) {
	if r.Empty() {
		return PricePoint{}, false
	}
	return r.Series[len(r.Series)-1], true
}

// LatestAverages returns the most recent average record
func (r *AnalysisResult) LatestAverages() (AverageRecord, bool) {
	if r == nil || len(r.Averages) == 0 {
		return AverageRecord{}, false
	}
	return r.Averages[len(r.Averages)-1], true
}

// Closes extracts closing prices in series order
func Closes(series []PricePoint) []float64 {
	closes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Close
	}
	return closes
}

// Intent is the classified purpose of a free-text query
type Intent string

const (
	IntentMovingAverage  Intent = "moving_average"
	IntentSpan           Intent = "span"
	IntentPrice          Intent = "price"
	IntentTrend          Intent = "trend"
	IntentRecommendation Intent = "recommendation"
	IntentHigh           Intent = "high"
	IntentLow            Intent = "low"
	IntentUnrecognized   Intent = "unrecognized"
)

// Recommendation represents the router's trading call
type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendSell Recommendation = "SELL"
	RecommendHold Recommendation = "HOLD"
)
