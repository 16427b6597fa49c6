package workers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/selivandex/stockspan/pkg/metrics"
	"github.com/selivandex/stockspan/pkg/models"
)

type fakeLoader struct {
	calls int
	err   error
}

func (f *fakeLoader) LoadFile(ctx context.Context, path string) (*models.AnalysisResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.AnalysisResult{}, nil
}

func writeFile(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestReloadWorker_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, path, "v1", base)

	loader := &fakeLoader{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	w := NewReloadWorker(loader, path, m)
	ctx := context.Background()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := w.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if loader.calls != 1 {
		t.Errorf("unchanged file should not reload, calls=%d", loader.calls)
	}
	if got := testutil.ToFloat64(m.ReloadsSkipped); got != 1 {
		t.Errorf("skipped = %v, want 1", got)
	}

	writeFile(t, path, "v2", base.Add(time.Minute))
	if err := w.Run(ctx); err != nil {
		t.Fatalf("third run: %v", err)
	}
	if loader.calls != 2 {
		t.Errorf("modified file should reload, calls=%d", loader.calls)
	}

	if err := w.Force(ctx); err != nil {
		t.Fatalf("Force: %v", err)
	}
	if loader.calls != 3 {
		t.Errorf("Force should always reload, calls=%d", loader.calls)
	}
}

func TestReloadWorker_RetriesAfterFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	writeFile(t, path, "v1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	loader := &fakeLoader{err: errors.New("boom")}
	w := NewReloadWorker(loader, path, nil)

	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected loader error")
	}

	loader.err = nil
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if loader.calls != 2 {
		t.Errorf("failed load should be retried, calls=%d", loader.calls)
	}
}

func TestReloadWorker_MissingFile(t *testing.T) {
	w := NewReloadWorker(&fakeLoader{}, filepath.Join(t.TempDir(), "nope.csv"), nil)
	if err := w.Run(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
	if w.Name() != "csv_reload" {
		t.Errorf("name = %q", w.Name())
	}
}
