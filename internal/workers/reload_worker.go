package workers

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/stockspan/pkg/logger"
	"github.com/selivandex/stockspan/pkg/metrics"
	"github.com/selivandex/stockspan/pkg/models"
)

// Loader loads a price file into a fresh analysis snapshot
type Loader interface {
	LoadFile(ctx context.Context, path string) (*models.AnalysisResult, error)
}

// ReloadWorker reloads the price CSV whenever its modification time or size changes
type ReloadWorker struct {
	loader  Loader
	path    string
	metrics *metrics.Metrics

	mu      sync.Mutex
	modTime time.Time
	size    int64
	loaded  bool
}

// NewReloadWorker creates a reload worker for path
func NewReloadWorker(loader Loader, path string, m *metrics.Metrics) *ReloadWorker {
	return &ReloadWorker{
		loader:  loader,
		path:    path,
		metrics: m,
	}
}

// Name returns worker name
func (w *ReloadWorker) Name() string {
	return "csv_reload"
}

// Run checks the file and reloads it if it changed since the last successful load
func (w *ReloadWorker) Run(ctx context.Context) error {
	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("failed to stat price file: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loaded && info.ModTime().Equal(w.modTime) && info.Size() == w.size {
		if w.metrics != nil {
			w.metrics.ReloadsSkipped.Inc()
		}
		return nil
	}

	return w.reload(ctx, info)
}

// Force reloads the file regardless of its modification time
func (w *ReloadWorker) Force(ctx context.Context) error {
	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("failed to stat price file: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return w.reload(ctx, info)
}

func (w *ReloadWorker) reload(ctx context.Context, info os.FileInfo) error {
	result, err := w.loader.LoadFile(ctx, w.path)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", w.path, err)
	}

	w.modTime = info.ModTime()
	w.size = info.Size()
	w.loaded = true

	logger.Info("price file reloaded",
		zap.String("path", w.path),
		zap.Int("points", len(result.Series)),
		zap.Time("modified", w.modTime),
	)

	return nil
}
