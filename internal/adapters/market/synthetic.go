package market

import (
	"math"
	"math/rand"
	"time"

	"github.com/selivandex/stockspan/pkg/models"
)

// Synthetic generates a deterministic random-walk price series for demos
type Synthetic struct {
	Start      time.Time
	StartPrice float64
	Volatility float64 // daily standard deviation as a fraction, e.g. 0.02
	Seed       int64
}

// NewSynthetic creates a generator with sensible defaults
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		StartPrice: 100,
		Volatility: 0.02,
		Seed:       seed,
	}
}

// Generate returns n consecutive daily bars
func (s *Synthetic) Generate(n int) []models.PricePoint {
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(s.Seed))
	series := make([]models.PricePoint, n)
	prev := s.StartPrice

	for i := range series {
		open := prev
		closePrice := math.Max(0.01, open*(1+rng.NormFloat64()*s.Volatility))
		wick := math.Abs(rng.NormFloat64()) * s.Volatility * open / 2

		series[i] = models.PricePoint{
			Date:   s.Start.AddDate(0, 0, i),
			Open:   models.Round(open, 2),
			High:   models.Round(math.Max(open, closePrice)+wick, 2),
			Low:    models.Round(math.Max(0.01, math.Min(open, closePrice)-wick), 2),
			Close:  models.Round(closePrice, 2),
			Volume: float64(500_000 + rng.Intn(1_000_000)),
		}
		prev = closePrice
	}

	return series
}
