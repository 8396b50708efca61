package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ForecastBoard/internal/backend"
	"ForecastBoard/internal/model"
	"ForecastBoard/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	tickers model.TickerList
	listErr error
	noData  map[model.Ticker]bool
}

func (f *fakeSource) ListTickers(context.Context) (model.TickerList, error) {
	return f.tickers, f.listErr
}

func (f *fakeSource) FetchHistorical(_ context.Context, t model.Ticker) (*model.HistoricalSeries, error) {
	if f.noData[t] {
		return nil, backend.ErrNoData
	}
	return &model.HistoricalSeries{
		Dates: []time.Time{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Close: []float64{102},
	}, nil
}

func (f *fakeSource) FetchPredictions(context.Context, model.Ticker) (model.PredictionSeries, error) {
	return model.PredictionSeries{103, 104, 105, 106, 107, 108, 109}, nil
}

type memRecorder struct {
	recorder.NoopRecorder
	mu    sync.Mutex
	snaps []recorder.ForecastSnapshot
}

func (m *memRecorder) RecordForecast(s *recorder.ForecastSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = append(m.snaps, *s)
	return nil
}

func TestSnapshot_RecordsEachTicker(t *testing.T) {
	src := &fakeSource{
		tickers: model.TickerList{"AAPL", "MSFT", "GONE"},
		noData:  map[model.Ticker]bool{"GONE": true},
	}
	rec := &memRecorder{}
	s := NewScheduler(context.Background(), src, rec, 2)

	res, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SnapshotResult{Tickers: 3, Recorded: 2, Skipped: 1}, res)

	require.Len(t, rec.snaps, 2)
	for _, snap := range rec.snaps {
		assert.Equal(t, 102.0, snap.LastClose)
		assert.Len(t, snap.Predictions, 7)
		assert.Equal(t, "2024-01-02", snap.AsOf.Format("2006-01-02"))
	}
}

func TestSnapshot_ListFailure(t *testing.T) {
	src := &fakeSource{tickers: model.TickerList{}, listErr: errors.New("down")}
	s := NewScheduler(context.Background(), src, &memRecorder{}, 1)

	_, err := s.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeSource{}, &memRecorder{}, 0)
	assert.Equal(t, 1, s.Concurrency)

	require.NoError(t, s.Register(""))
	assert.Empty(t, s.Cron.Entries())

	require.NoError(t, s.Register("0 30 18 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.Register("not a cron"))
}
