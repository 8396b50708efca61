package dashboard

import (
	"context"
	"errors"
	"fmt"

	"ForecastBoard/internal/backend"
	"ForecastBoard/internal/logger"
	"ForecastBoard/internal/metrics"
	"ForecastBoard/internal/model"
	"ForecastBoard/internal/recorder"
	"ForecastBoard/internal/series"

	"go.uber.org/zap"
)

// Backend is the subset of the backend client the controller drives.
type Backend interface {
	ListTickers(ctx context.Context) (model.TickerList, error)
	AddTicker(ctx context.Context, candidate string) backend.AddResult
	FetchHistorical(ctx context.Context, ticker model.Ticker) (*model.HistoricalSeries, error)
	FetchPredictions(ctx context.Context, ticker model.Ticker) (model.PredictionSeries, error)
}

// Controller runs the render cycle. Every step completes before the next begins,
// and no error escapes: failures become messages on the view.
type Controller struct {
	Backend  Backend
	Recorder recorder.Recorder
}

// NewController creates a Controller. A nil recorder disables recording.
func NewController(b Backend, rec recorder.Recorder) *Controller {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Controller{Backend: b, Recorder: rec}
}

// Render re-evaluates the page for sess. requested, when non-empty, is the ticker the user
// picked in the selector.
func (c *Controller) Render(ctx context.Context, sess *model.Session, requested model.Ticker) *View {
	v := &View{Title: AppTitle, Messages: sess.DrainFlash()}
	v.enter(StateIdle)

	v.enter(StateListingTickers)
	list, err := c.Backend.ListTickers(ctx)
	if err != nil {
		v.add(model.LevelError, "Error fetching tickers: %v", err)
	}
	if list == nil {
		list = model.TickerList{}
	}
	sess.Tickers = list
	v.Tickers = list

	ticker, ok := selectTicker(sess, requested)
	if !ok {
		v.add(model.LevelWarning, "No tickers available. Please add a ticker.")
		v.enter(StateAwaitingSelection)
		return c.finish(sess, v)
	}
	v.Selected = ticker
	v.enter(StateHasSelection)

	v.enter(StateFetchingHistorical)
	hist, err := c.Backend.FetchHistorical(ctx, ticker)
	if err != nil {
		if !errors.Is(err, backend.ErrNoData) {
			v.add(model.LevelError, "Error fetching historical data for %s: %v", ticker, err)
		}
		v.add(model.LevelWarning, "Could not retrieve data, please make sure ticker has valid historical data")
		v.enter(StateNoData)
		return c.finish(sess, v)
	}
	v.enter(StateHasHistorical)

	v.enter(StateFetchingPredictions)
	preds, err := c.Backend.FetchPredictions(ctx, ticker)
	if err != nil {
		if !errors.Is(err, backend.ErrNoData) {
			v.add(model.LevelError, "Error fetching predictions for %s: %v", ticker, err)
		}
		preds = nil
	}

	combined, err := series.BuildCombinedSeries(hist, preds)
	if err != nil {
		v.add(model.LevelError, "Error fetching predictions for %s: %v", ticker, err)
		preds = nil
		combined, _ = series.BuildCombinedSeries(hist, nil)
	}
	v.Series = combined
	v.Summary = series.Summarize(hist, preds)

	if len(preds) > 0 {
		v.ChartTitle = fmt.Sprintf("Stock Data and Prediction for %s", ticker)
		v.enter(StateCombined)
	} else {
		v.ChartTitle = fmt.Sprintf("Stock Data for %s", ticker)
		v.enter(StateHistoricalOnly)
	}
	return c.finish(sess, v)
}

// Add registers candidate with the backend and queues the outcome as flash messages
// for the next render. The ticker list is not touched: the next render re-fetches it
// from the backend, which picks up the new ticker.
func (c *Controller) Add(ctx context.Context, sess *model.Session, candidate string) backend.AddResult {
	res := c.Backend.AddTicker(ctx, candidate)

	var msg model.Message
	switch res.Outcome {
	case backend.AddInvalid:
		msg = model.Message{Level: model.LevelError, Text: fmt.Sprintf("Invalid ticker: %s", res.Ticker)}
	case backend.AddTransportFailure:
		msg = model.Message{Level: model.LevelError, Text: fmt.Sprintf("Error adding ticker %s: %v", res.Ticker, res.Err)}
	case backend.AddAdded:
		msg = model.Message{Level: model.LevelSuccess, Text: res.Message}
	}
	sess.Flash = append(sess.Flash, msg)

	metrics.TickerAdds.WithLabelValues(res.Outcome.String()).Inc()
	if err := c.Recorder.RecordTickerAdd(&recorder.TickerAddEvent{
		SessionID: sess.ID,
		Ticker:    string(res.Ticker),
		Outcome:   res.Outcome.String(),
		Message:   msg.Text,
	}); err != nil {
		logger.Log.Error("record ticker add", zap.Error(err))
	}
	logger.Log.Info("add ticker",
		zap.String("ticker", string(res.Ticker)), zap.String("outcome", res.Outcome.String()))
	return res
}

// selectTicker applies the selection rules: an explicit request wins if listed (exactly, or
// failing that ignoring case), then the previous selection if still listed, then the first
// ticker. An empty list clears the selection.
func selectTicker(sess *model.Session, requested model.Ticker) (model.Ticker, bool) {
	if len(sess.Tickers) == 0 {
		sess.ClearSelection()
		return "", false
	}
	if t, ok := sess.Tickers.Match(requested); ok {
		sess.Select(t)
		return t, true
	}
	if prev, ok := sess.SelectedTicker(); ok && sess.Tickers.Contains(prev) {
		return prev, true
	}
	sess.Select(sess.Tickers[0])
	return sess.Tickers[0], true
}

func (c *Controller) finish(sess *model.Session, v *View) *View {
	if v.Messages == nil {
		v.Messages = []model.Message{}
	}
	predicted := 0
	for _, p := range v.Series.Points {
		if p.Predicted {
			predicted++
		}
	}

	metrics.Renders.WithLabelValues(string(v.State)).Inc()
	if err := c.Recorder.RecordRender(&recorder.RenderEvent{
		SessionID:       sess.ID,
		Ticker:          string(v.Selected),
		State:           string(v.State),
		HistoricalCount: v.Series.Len() - predicted,
		PredictedCount:  predicted,
		Messages:        len(v.Messages),
	}); err != nil {
		logger.Log.Error("record render", zap.Error(err))
	}
	logger.Log.Debug("render complete",
		zap.String("session", sess.ID), zap.String("ticker", string(v.Selected)), zap.String("state", string(v.State)))
	return v
}
