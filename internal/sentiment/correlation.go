package sentiment

import (
	"math"

	"github.com/selivandex/stockspan/pkg/models"
)

// Correlate computes the Pearson correlation coefficient between two series.
// Mismatched lengths, fewer than two points and zero variance all yield 0.
func Correlate(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}

	n := float64(len(a))

	// Calculate means
	var sumA, sumB float64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / n
	meanB := sumB / n

	var numerator, varA, varB float64
	for i := range a {
		diffA := a[i] - meanA
		diffB := b[i] - meanB
		numerator += diffA * diffB
		varA += diffA * diffA
		varB += diffB * diffB
	}

	if varA == 0 || varB == 0 {
		return 0 // No variance = no correlation
	}

	return clamp(numerator/math.Sqrt(varA*varB), -1, 1)
}

// SpanSeries extracts span counts from an annotated series for correlation
func SpanSeries(series []models.PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = float64(p.Span)
	}
	return out
}
