package indicators

import "github.com/selivandex/stockspan/pkg/models"

// stackEntry is a previously seen close still able to bound a later span
type stackEntry struct {
	index int
	price float64
}

// ComputeSpans returns, for every close, the number of consecutive closes
// ending at it (inclusive) that are less than or equal to it.
// The stack holds strictly decreasing prices from bottom to top, so every
// index is pushed once and popped at most once.
func ComputeSpans(closes []float64) []int {
	spans := make([]int, len(closes))
	stack := make([]stackEntry, 0, len(closes))

	for i, price := range closes {
		for len(stack) > 0 && stack[len(stack)-1].price <= price {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			spans[i] = i + 1
		} else {
			spans[i] = i - stack[len(stack)-1].index
		}

		stack = append(stack, stackEntry{index: i, price: price})
	}

	return spans
}

// AnnotateSpans returns a copy of series with Span filled in
func AnnotateSpans(series []models.PricePoint) []models.PricePoint {
	spans := ComputeSpans(models.Closes(series))

	annotated := make([]models.PricePoint, len(series))
	copy(annotated, series)
	for i := range annotated {
		annotated[i].Span = spans[i]
	}

	return annotated
}
