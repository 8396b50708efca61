package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"ForecastBoard/internal/logger"
	"ForecastBoard/internal/metrics"
	"ForecastBoard/internal/model"
	"ForecastBoard/internal/recorder"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source is the backend surface the snapshot job reads from.
type Source interface {
	ListTickers(ctx context.Context) (model.TickerList, error)
	FetchHistorical(ctx context.Context, ticker model.Ticker) (*model.HistoricalSeries, error)
	FetchPredictions(ctx context.Context, ticker model.Ticker) (model.PredictionSeries, error)
}

// Scheduler runs the periodic forecast snapshot.
type Scheduler struct {
	Cron        *cron.Cron
	Source      Source
	Recorder    recorder.Recorder
	Concurrency int
	Ctx         context.Context
}

// SnapshotResult counts what one snapshot run did.
type SnapshotResult struct {
	Tickers  int
	Recorded int
	Skipped  int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, src Source, rec recorder.Recorder, concurrency int) *Scheduler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Source:      src,
		Recorder:    rec,
		Concurrency: concurrency,
		Ctx:         ctx,
	}
}

// Register adds the snapshot task. An empty spec leaves the journal disabled.
func (s *Scheduler) Register(snapshotCron string) error {
	if snapshotCron == "" {
		logger.Log.Info("forecast snapshot disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(snapshotCron, s.snapshotTask); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	logger.Log.Info("forecast snapshot registered", zap.String("cron", snapshotCron))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	logger.Log.Info("scheduler stopped")
}

// RunSnapshotNow executes the snapshot task immediately (RUN_ON_START).
func (s *Scheduler) RunSnapshotNow() {
	s.snapshotTask()
}

func (s *Scheduler) snapshotTask() {
	if _, err := s.Snapshot(s.Ctx); err != nil {
		logger.Log.Error("forecast snapshot failed", zap.Error(err))
	}
}

// Snapshot records the current forecast of every backend ticker. A failing ticker is
// logged and skipped; only a failure to list tickers fails the run.
func (s *Scheduler) Snapshot(ctx context.Context) (SnapshotResult, error) {
	start := time.Now()
	tickers, err := s.Source.ListTickers(ctx)
	if err != nil {
		metrics.SnapshotRuns.WithLabelValues("error").Inc()
		return SnapshotResult{}, fmt.Errorf("list tickers: %w", err)
	}

	var recorded, skipped atomic.Int32
	var g errgroup.Group
	g.SetLimit(s.Concurrency)
	for _, t := range tickers {
		g.Go(func() error {
			if err := s.snapshotTicker(ctx, t); err != nil {
				skipped.Add(1)
				metrics.SnapshotTickerErrors.Inc()
				logger.Log.Warn("snapshot ticker skipped", zap.String("ticker", string(t)), zap.Error(err))
				return nil
			}
			recorded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := SnapshotResult{Tickers: len(tickers), Recorded: int(recorded.Load()), Skipped: int(skipped.Load())}
	metrics.SnapshotRuns.WithLabelValues("ok").Inc()
	logger.Log.Info("forecast snapshot complete",
		zap.Int("tickers", res.Tickers), zap.Int("recorded", res.Recorded),
		zap.Int("skipped", res.Skipped), zap.Duration("took", time.Since(start)))
	return res, nil
}

func (s *Scheduler) snapshotTicker(ctx context.Context, t model.Ticker) error {
	hist, err := s.Source.FetchHistorical(ctx, t)
	if err != nil {
		return fmt.Errorf("historical: %w", err)
	}
	preds, err := s.Source.FetchPredictions(ctx, t)
	if err != nil {
		return fmt.Errorf("predictions: %w", err)
	}
	return s.Recorder.RecordForecast(&recorder.ForecastSnapshot{
		Ticker:      string(t),
		AsOf:        hist.MaxDate(),
		LastClose:   hist.Close[hist.Len()-1],
		Predictions: preds,
	})
}
