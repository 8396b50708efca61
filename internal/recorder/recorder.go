package recorder

import "time"

// RenderEvent summarises one dashboard render.
type RenderEvent struct {
	SessionID       string
	Ticker          string // empty when nothing was selected
	State           string // final render state
	HistoricalCount int
	PredictedCount  int
	Messages        int
}

// TickerAddEvent records an add-ticker attempt.
type TickerAddEvent struct {
	SessionID string
	Ticker    string
	Outcome   string // "added", "invalid" or "transport_failure"
	Message   string
}

// ForecastSnapshot stores one forecast as served by the backend.
type ForecastSnapshot struct {
	Ticker      string
	AsOf        time.Time // last historical date the forecast extends
	LastClose   float64
	Predictions []float64
}

// Recorder persists dashboard activity and forecast history for later analysis.
type Recorder interface {
	RecordRender(evt *RenderEvent) error
	RecordTickerAdd(evt *TickerAddEvent) error
	RecordForecast(snap *ForecastSnapshot) error
	Close() error
}
