package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/selivandex/stockspan/pkg/logger"
)

// Worker interface that background workers should implement
type Worker interface {
	// Name returns worker name for logging
	Name() string
	// Run executes one iteration of work
	Run(ctx context.Context) error
}

// runner is a started worker that can be stopped gracefully
type runner interface {
	Start(ctx context.Context)
	Stop(timeout time.Duration)
}

// PeriodicWorker wraps a Worker with periodic execution
type PeriodicWorker struct {
	worker   Worker
	interval time.Duration
	wg       *sync.WaitGroup
	name     string
}

// NewPeriodicWorker creates new periodic worker
func NewPeriodicWorker(worker Worker, interval time.Duration) *PeriodicWorker {
	return &PeriodicWorker{
		worker:   worker,
		interval: interval,
		wg:       &sync.WaitGroup{},
		name:     worker.Name(),
	}
}

// Start starts the worker with graceful shutdown support
func (pw *PeriodicWorker) Start(ctx context.Context) {
	pw.wg.Add(1)
	go pw.run(ctx)
}

// Stop waits for graceful shutdown
func (pw *PeriodicWorker) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		pw.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("✅ Worker stopped gracefully",
			zap.String("worker", pw.name),
		)
	case <-time.After(timeout):
		logger.Warn("⚠️ Worker stop timeout",
			zap.String("worker", pw.name),
		)
	}
}

// run executes worker periodically
func (pw *PeriodicWorker) run(ctx context.Context) {
	defer pw.wg.Done()

	logger.Info("🚀 Worker started",
		zap.String("worker", pw.name),
		zap.Duration("interval", pw.interval),
	)

	// Run immediately on start
	runOnce(ctx, pw.worker)

	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("🛑 Worker stopping",
				zap.String("worker", pw.name),
			)
			return

		case <-ticker.C:
			// Continue despite error - don't crash worker
			runOnce(ctx, pw.worker)
		}
	}
}

func runOnce(ctx context.Context, w Worker) {
	if err := w.Run(ctx); err != nil {
		logger.Error("worker execution failed",
			zap.String("worker", w.Name()),
			zap.Error(err),
		)
	}
}

// CronWorker runs a Worker on a cron schedule. Overlapping runs are skipped.
type CronWorker struct {
	worker Worker
	spec   string
	cron   *cron.Cron
	wg     sync.WaitGroup
	name   string
}

// NewCronWorker validates spec and creates a cron-scheduled worker
func NewCronWorker(worker Worker, spec string) (*CronWorker, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return &CronWorker{
		worker: worker,
		spec:   spec,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		name:   worker.Name(),
	}, nil
}

// Start schedules the worker and runs it once immediately
func (cw *CronWorker) Start(ctx context.Context) {
	if _, err := cw.cron.AddFunc(cw.spec, func() {
		if ctx.Err() != nil {
			return
		}
		runOnce(ctx, cw.worker)
	}); err != nil {
		logger.Error("failed to schedule worker", zap.String("worker", cw.name), zap.Error(err))
		return
	}

	cw.wg.Add(1)
	go func() {
		defer cw.wg.Done()
		runOnce(ctx, cw.worker)
		cw.cron.Start()

		logger.Info("🚀 Worker scheduled",
			zap.String("worker", cw.name),
			zap.String("schedule", cw.spec),
		)

		<-ctx.Done()
		logger.Info("🛑 Worker stopping",
			zap.String("worker", cw.name),
		)
		<-cw.cron.Stop().Done()
	}()
}

// Stop waits for the scheduler and any in-flight run to finish
func (cw *CronWorker) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		cw.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("✅ Worker stopped gracefully",
			zap.String("worker", cw.name),
		)
	case <-time.After(timeout):
		logger.Warn("⚠️ Worker stop timeout",
			zap.String("worker", cw.name),
		)
	}
}

// WorkerGroup manages multiple workers with graceful shutdown
type WorkerGroup struct {
	workers []runner
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
}

// NewWorkerGroup creates new worker group
func NewWorkerGroup(ctx context.Context) *WorkerGroup {
	ctx, cancel := context.WithCancel(ctx)
	return &WorkerGroup{
		workers: make([]runner, 0),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add adds worker to group
func (wg *WorkerGroup) Add(worker Worker, interval time.Duration) {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	pw := NewPeriodicWorker(worker, interval)
	wg.workers = append(wg.workers, pw)
}

// AddCron adds a worker run on a standard five-field cron schedule
func (wg *WorkerGroup) AddCron(worker Worker, spec string) error {
	cw, err := NewCronWorker(worker, spec)
	if err != nil {
		return err
	}

	wg.mu.Lock()
	defer wg.mu.Unlock()

	wg.workers = append(wg.workers, cw)
	return nil
}

// Wait blocks until the group context is done
func (wg *WorkerGroup) Wait() {
	<-wg.ctx.Done()
}

// Start starts all workers
func (wg *WorkerGroup) Start() {
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, worker := range wg.workers {
		worker.Start(wg.ctx)
	}

	logger.Info("🚀 Worker group started",
		zap.Int("workers", len(wg.workers)),
	)
}

// Stop stops all workers gracefully
func (wg *WorkerGroup) Stop(timeout time.Duration) {
	logger.Info("🛑 Stopping worker group...",
		zap.Int("workers", len(wg.workers)),
	)

	// Cancel context first
	wg.cancel()

	// Wait for all workers with timeout
	wg.mu.Lock()
	defer wg.mu.Unlock()

	for _, worker := range wg.workers {
		worker.Stop(timeout)
	}

	logger.Info("✅ Worker group stopped")
}

// RunBackground is a convenience function to run single worker
// Usage: worker.RunBackground(ctx, myWorker, 30*time.Second)
func RunBackground(ctx context.Context, worker Worker, interval time.Duration) *PeriodicWorker {
	pw := NewPeriodicWorker(worker, interval)
	pw.Start(ctx)
	return pw
}
