package series

import (
	"testing"
	"time"

	"ForecastBoard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleHist() *model.HistoricalSeries {
	return &model.HistoricalSeries{
		Dates: []time.Time{day("2024-01-01"), day("2024-01-02")},
		Close: []float64{100, 102},
	}
}

func TestBuildCombinedSeries_NoPredictions(t *testing.T) {
	hist := sampleHist()

	for _, preds := range []model.PredictionSeries{nil, {}} {
		combined, err := BuildCombinedSeries(hist, preds)
		require.NoError(t, err)
		require.Equal(t, hist.Len(), combined.Len())
		for i, p := range combined.Points {
			assert.Equal(t, hist.Dates[i], p.Date)
			assert.Equal(t, hist.Close[i], p.Close)
			assert.False(t, p.Predicted)
		}
		assert.False(t, combined.Boundary.Valid)
	}
}

func TestBuildCombinedSeries_SevenDays(t *testing.T) {
	hist := sampleHist()
	preds := model.PredictionSeries{103, 104, 105, 106, 107, 108, 109}

	combined, err := BuildCombinedSeries(hist, preds)
	require.NoError(t, err)
	require.Equal(t, hist.Len()+7, combined.Len())

	want := []string{"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09"}
	for i, w := range want {
		p := combined.Points[hist.Len()+i]
		assert.Equal(t, w, p.Date.Format("2006-01-02"))
		assert.Equal(t, preds[i], p.Close)
		assert.True(t, p.Predicted)
	}

	last := combined.Points[combined.Len()-1]
	assert.Equal(t, "2024-01-09", last.Date.Format("2006-01-02"))
	assert.Equal(t, 109.0, last.Close)

	require.True(t, combined.Boundary.Valid)
	assert.Equal(t, day("2024-01-02"), combined.Boundary.Time)
}

func TestBuildCombinedSeries_UsesMaxDate(t *testing.T) {
	hist := &model.HistoricalSeries{
		Dates: []time.Time{day("2024-03-29"), day("2024-02-10")},
		Close: []float64{1, 2},
	}
	combined, err := BuildCombinedSeries(hist, model.PredictionSeries{1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-30", combined.Points[2].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-04-05", combined.Points[8].Date.Format("2006-01-02"))
}

func TestBuildCombinedSeries_DoesNotMutate(t *testing.T) {
	hist := sampleHist()
	before := &model.HistoricalSeries{
		Dates: append([]time.Time(nil), hist.Dates...),
		Close: append([]float64(nil), hist.Close...),
	}

	_, err := BuildCombinedSeries(hist, model.PredictionSeries{1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)
	assert.Equal(t, before, hist)
}

func TestBuildCombinedSeries_WrongHorizon(t *testing.T) {
	_, err := BuildCombinedSeries(sampleHist(), model.PredictionSeries{1, 2, 3})
	assert.ErrorIs(t, err, model.ErrForecastHorizon)
}

func TestSummarize(t *testing.T) {
	hist := sampleHist()

	s := Summarize(hist, nil)
	assert.Equal(t, 102.0, s.LastClose)
	assert.False(t, s.HasForecast)

	s = Summarize(hist, model.PredictionSeries{103, 104, 105, 106, 107, 108, 109})
	assert.True(t, s.HasForecast)
	assert.InDelta(t, 106, s.ForecastMean, 1e-9)
	assert.InDelta(t, 2.160247, s.ForecastStdDev, 1e-6)
	assert.Equal(t, 109.0, s.FinalForecast)
	assert.InDelta(t, 6.862745, s.ChangePct, 1e-6)

	assert.Equal(t, Summary{}, Summarize(&model.HistoricalSeries{}, nil))
}
