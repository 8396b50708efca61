package dashboard

import (
	"fmt"

	"ForecastBoard/internal/model"
	"ForecastBoard/internal/series"
)

// AppTitle is the page title.
const AppTitle = "Stock Price Prediction App"

// View is everything the rendering surface needs for one page.
type View struct {
	Title      string               `json:"title"`
	ChartTitle string               `json:"chart_title,omitempty"`
	Tickers    model.TickerList     `json:"tickers"`
	Selected   model.Ticker         `json:"selected,omitempty"`
	Series     model.CombinedSeries `json:"series"`
	Summary    series.Summary       `json:"summary"`
	Messages   []model.Message      `json:"messages"`
	State      State                `json:"state"`
	Path       []State              `json:"path"`
}

// HasChart reports whether there is anything to plot.
func (v *View) HasChart() bool {
	return v.State == StateCombined || v.State == StateHistoricalOnly
}

func (v *View) enter(s State) {
	v.State = s
	v.Path = append(v.Path, s)
}

func (v *View) add(level model.Level, format string, args ...any) {
	v.Messages = append(v.Messages, model.Message{Level: level, Text: fmt.Sprintf(format, args...)})
}
