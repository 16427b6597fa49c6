package indicators

import (
	"fmt"

	"github.com/cinar/indicator"

	"github.com/selivandex/stockspan/pkg/models"
)

// Snapshot holds supplementary indicators for the latest bar
type Snapshot struct {
	EMA12 float64
	EMA26 float64
	RSI14 float64
	Ready bool // false when the series is too short for EMA(26)
}

// Calculator calculates supplementary technical indicators from price series
type Calculator struct{}

// NewCalculator creates new indicator calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// CalculateEMA calculates Exponential Moving Average
func (c *Calculator) CalculateEMA(series []models.PricePoint, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWindow, period)
	}
	if len(series) < period {
		return 0, fmt.Errorf("insufficient points for EMA(%d): got %d", period, len(series))
	}

	ema := indicator.Ema(period, models.Closes(series))
	if len(ema) == 0 {
		return 0, fmt.Errorf("EMA calculation failed")
	}
	return ema[len(ema)-1], nil
}

// CalculateRSI calculates the 14-period RSI
func (c *Calculator) CalculateRSI(series []models.PricePoint) (float64, error) {
	if len(series) < 15 {
		return 0, fmt.Errorf("insufficient points for RSI calculation: got %d", len(series))
	}

	_, rsi := indicator.Rsi(models.Closes(series))
	if len(rsi) == 0 {
		return 0, fmt.Errorf("RSI returned no data")
	}
	return rsi[len(rsi)-1], nil
}

// Calculate computes the supplementary snapshot. Short series yield a
// snapshot with Ready=false rather than an error.
func (c *Calculator) Calculate(series []models.PricePoint) Snapshot {
	var snap Snapshot
	var err error

	if snap.EMA12, err = c.CalculateEMA(series, 12); err != nil {
		return Snapshot{}
	}
	if snap.EMA26, err = c.CalculateEMA(series, 26); err != nil {
		return Snapshot{}
	}
	if snap.RSI14, err = c.CalculateRSI(series); err != nil {
		return Snapshot{}
	}
	snap.Ready = true

	return snap
}
