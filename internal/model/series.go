package model

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/guregu/null/v6"
)

// ForecastHorizon is the number of calendar days covered by a prediction series.
const ForecastHorizon = 7

// ErrForecastHorizon is returned when a prediction series does not cover exactly ForecastHorizon days.
var ErrForecastHorizon = errors.New("prediction series length mismatch")

// HistoricalSeries holds index-aligned trading dates and close prices.
type HistoricalSeries struct {
	Dates []time.Time
	Close []float64
}

// Len returns the number of points in the series.
func (h *HistoricalSeries) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Dates)
}

// MaxDate returns the latest date in the series. The zero time is returned for an empty series.
func (h *HistoricalSeries) MaxDate() time.Time {
	var last time.Time
	if h == nil {
		return last
	}
	for _, d := range h.Dates {
		if d.After(last) {
			last = d
		}
	}
	return last
}

// Points converts the series into plot points.
func (h *HistoricalSeries) Points() []Point {
	points := make([]Point, 0, h.Len())
	for i := 0; i < h.Len(); i++ {
		points = append(points, Point{Date: h.Dates[i], Close: h.Close[i]})
	}
	return points
}

// SortChronologically orders the series by date, keeping each close with its date.
func (h *HistoricalSeries) SortChronologically() {
	sort.Stable(byDate{h})
}

type byDate struct{ h *HistoricalSeries }

func (b byDate) Len() int           { return len(b.h.Dates) }
func (b byDate) Less(i, j int) bool { return b.h.Dates[i].Before(b.h.Dates[j]) }
func (b byDate) Swap(i, j int) {
	b.h.Dates[i], b.h.Dates[j] = b.h.Dates[j], b.h.Dates[i]
	b.h.Close[i], b.h.Close[j] = b.h.Close[j], b.h.Close[i]
}

// PredictionSeries holds predicted closes for the ForecastHorizon days after the last historical date.
type PredictionSeries []float64

// Validate checks that the series covers exactly ForecastHorizon days.
func (p PredictionSeries) Validate() error {
	if len(p) != ForecastHorizon {
		return fmt.Errorf("%w: got %d values, want %d", ErrForecastHorizon, len(p), ForecastHorizon)
	}
	return nil
}

// Point is a single plotted value.
type Point struct {
	Date      time.Time `json:"date"`
	Close     float64   `json:"close"`
	Predicted bool      `json:"predicted"`
}

// CombinedSeries is the historical series followed by the dated forecast, used for display only.
// Boundary is the last historical date when a forecast is attached.
type CombinedSeries struct {
	Points   []Point   `json:"points"`
	Boundary null.Time `json:"boundary"`
}

// Len returns the number of plotted points.
func (c CombinedSeries) Len() int { return len(c.Points) }
