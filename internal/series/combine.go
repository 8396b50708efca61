package series

import (
	"ForecastBoard/internal/model"

	"github.com/guregu/null/v6"
)

// BuildCombinedSeries appends the dated forecast to the historical points.
//
// With no predictions the historical points are returned unchanged and the boundary is unset.
// Otherwise preds must hold exactly model.ForecastHorizon values; they are dated on the
// consecutive calendar days after the latest historical date, which becomes the boundary.
// hist is never modified.
func BuildCombinedSeries(hist *model.HistoricalSeries, preds model.PredictionSeries) (model.CombinedSeries, error) {
	points := hist.Points()
	if len(preds) == 0 {
		return model.CombinedSeries{Points: points}, nil
	}
	if err := preds.Validate(); err != nil {
		return model.CombinedSeries{}, err
	}

	last := hist.MaxDate()
	for i, v := range preds {
		points = append(points, model.Point{
			Date:      last.AddDate(0, 0, i+1),
			Close:     v,
			Predicted: true,
		})
	}
	return model.CombinedSeries{Points: points, Boundary: null.TimeFrom(last)}, nil
}
