package indicators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/selivandex/stockspan/pkg/models"
)

// ErrInvalidWindow is returned for non-positive or missing window sizes
var ErrInvalidWindow = errors.New("invalid moving average window")

// windowState is the rolling state of a single window size.
// buf is a circular buffer holding the last n (at most window) closes.
type windowState struct {
	window int
	buf    []float64
	idx    int // next write position
	n      int // values currently held
	sum    float64
}

func newWindowState(window int) *windowState {
	return &windowState{
		window: window,
		buf:    make([]float64, window),
	}
}

// push adds a close, evicting the oldest once the window is full,
// and returns the mean of the values held.
func (w *windowState) push(price float64) float64 {
	if w.n == w.window {
		w.sum -= w.buf[w.idx]
	} else {
		w.n++
	}

	w.buf[w.idx] = price
	w.sum += price
	w.idx = (w.idx + 1) % w.window

	return w.sum / float64(w.n)
}

func (w *windowState) reset() {
	w.idx = 0
	w.n = 0
	w.sum = 0
	for i := range w.buf {
		w.buf[i] = 0
	}
}

// MovingAverageEngine computes simple moving averages for several independent
// window sizes. Until a window fills, the mean of all closes seen is reported.
type MovingAverageEngine struct {
	windows []*windowState
}

// NewMovingAverageEngine creates an engine for the given window sizes.
// Duplicates collapse; sizes must be positive.
func NewMovingAverageEngine(windows ...int) (*MovingAverageEngine, error) {
	normalized, err := NormalizeWindows(windows)
	if err != nil {
		return nil, err
	}

	states := make([]*windowState, len(normalized))
	for i, w := range normalized {
		states[i] = newWindowState(w)
	}

	return &MovingAverageEngine{windows: states}, nil
}

// NormalizeWindows validates, de-duplicates and sorts window sizes
func NormalizeWindows(windows []int) ([]int, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: no windows configured", ErrInvalidWindow)
	}

	seen := make(map[int]bool, len(windows))
	normalized := make([]int, 0, len(windows))
	for _, w := range windows {
		if w <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, w)
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		normalized = append(normalized, w)
	}
	sort.Ints(normalized)

	return normalized, nil
}

// Windows returns the configured window sizes in ascending order
func (e *MovingAverageEngine) Windows() []int {
	sizes := make([]int, len(e.windows))
	for i, w := range e.windows {
		sizes[i] = w.window
	}
	return sizes
}

// Update feeds one close into every window and returns the current averages
func (e *MovingAverageEngine) Update(price float64) map[int]float64 {
	averages := make(map[int]float64, len(e.windows))
	for _, w := range e.windows {
		averages[w.window] = w.push(price)
	}
	return averages
}

// Reset clears all per-window state
func (e *MovingAverageEngine) Reset() {
	for _, w := range e.windows {
		w.reset()
	}
}

// Compute resets the engine and produces one record per price point
func (e *MovingAverageEngine) Compute(series []models.PricePoint) []models.AverageRecord {
	e.Reset()

	records := make([]models.AverageRecord, len(series))
	for i, p := range series {
		records[i] = models.AverageRecord{
			Date:     p.Date,
			Averages: e.Update(p.Close),
		}
	}

	return records
}

// ComputeAverages runs a fresh engine over series
func ComputeAverages(series []models.PricePoint, windows []int) ([]models.AverageRecord, error) {
	engine, err := NewMovingAverageEngine(windows...)
	if err != nil {
		return nil, err
	}
	return engine.Compute(series), nil
}
