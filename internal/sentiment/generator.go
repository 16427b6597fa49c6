package sentiment

import (
	"math"

	"github.com/selivandex/stockspan/pkg/models"
)

const (
	returnScale   = 5.0 // percent return that maps to tanh(1)
	noiseAmp      = 0.2
	minConfidence = 0.6
	maxConfidence = 1.0
	minPosts      = 100
	maxPosts      = 1000
)

// Source provides uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Generator produces synthetic social sentiment from price action
type Generator struct {
	src Source
}

// NewGenerator creates a generator drawing noise from src
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// Generate returns one sample per price point in the same order.
// The score follows tanh of the daily percent return plus bounded noise.
func (g *Generator) Generate(series []models.PricePoint) []models.SentimentSample {
	samples := make([]models.SentimentSample, len(series))

	for i, p := range series {
		var ret float64
		if i > 0 && series[i-1].Close != 0 {
			prev := series[i-1].Close
			ret = (p.Close - prev) / prev * 100
		}

		noise := g.src.Float64()*2*noiseAmp - noiseAmp
		score := clamp(math.Tanh(ret/returnScale)+noise, -1, 1)

		samples[i] = models.SentimentSample{
			Date:       p.Date,
			Score:      score,
			Confidence: minConfidence + g.src.Float64()*(maxConfidence-minConfidence),
			Volume:     minPosts + int(g.src.Float64()*float64(maxPosts-minPosts+1)),
		}
	}

	return samples
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
