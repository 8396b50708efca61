package series

import (
	"math"

	"ForecastBoard/internal/model"

	"gonum.org/v1/gonum/stat"
)

// Summary condenses a forecast against the latest known close.
type Summary struct {
	LastClose      float64 `json:"last_close"`
	HasForecast    bool    `json:"has_forecast"`
	ForecastMean   float64 `json:"forecast_mean"`
	ForecastStdDev float64 `json:"forecast_std_dev"`
	FinalForecast  float64 `json:"final_forecast"`
	ChangePct      float64 `json:"change_pct"` // final forecast vs last close
}

// Summarize computes display statistics. hist must be non-empty.
func Summarize(hist *model.HistoricalSeries, preds model.PredictionSeries) Summary {
	var s Summary
	if hist.Len() == 0 {
		return s
	}
	// Last close belongs to the latest date, which after sorting is the final element.
	s.LastClose = hist.Close[hist.Len()-1]
	if len(preds) == 0 {
		return s
	}

	s.HasForecast = true
	s.ForecastMean, s.ForecastStdDev = stat.MeanStdDev(preds, nil)
	if math.IsNaN(s.ForecastStdDev) {
		s.ForecastStdDev = 0
	}
	s.FinalForecast = preds[len(preds)-1]
	if s.LastClose != 0 {
		s.ChangePct = (s.FinalForecast - s.LastClose) / s.LastClose * 100
	}
	return s
}
