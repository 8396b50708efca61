package web

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ForecastBoard/internal/model"
)

const (
	chartWidth  = 860
	chartHeight = 420
	padLeft     = 64
	padRight    = 24
	padTop      = 36
	padBottom   = 40
	yTicks      = 5
	xTicks      = 6
)

// Tick is an axis label at a pixel position.
type Tick struct {
	Pos   float64
	Label string
}

// Chart is the SVG geometry of a combined series.
type Chart struct {
	Width, Height  int
	Left, Right    float64
	Top, Bottom    float64
	HistoricalPath string
	ForecastPath   string
	HasMarker      bool
	MarkerX        float64
	XTicks         []Tick
	YTicks         []Tick
}

// buildChart lays out s as polylines. The forecast line starts at the last historical
// point so the two segments join. X ticks fall on whole days at a fixed day step.
// Returns nil for an empty series.
func buildChart(s model.CombinedSeries) *Chart {
	if s.Len() == 0 {
		return nil
	}
	c := &Chart{
		Width: chartWidth, Height: chartHeight,
		Left: padLeft, Right: chartWidth - padRight,
		Top: padTop, Bottom: chartHeight - padBottom,
	}

	minT, maxT := s.Points[0].Date, s.Points[0].Date
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range s.Points {
		if p.Date.Before(minT) {
			minT = p.Date
		}
		if p.Date.After(maxT) {
			maxT = p.Date
		}
		minY = math.Min(minY, p.Close)
		maxY = math.Max(maxY, p.Close)
	}
	if maxY == minY {
		minY, maxY = minY-1, maxY+1
	}
	pad := (maxY - minY) * 0.05
	minY, maxY = minY-pad, maxY+pad
	span := maxT.Sub(minT).Seconds()

	x := func(t time.Time) float64 {
		if span == 0 {
			return (c.Left + c.Right) / 2
		}
		return c.Left + t.Sub(minT).Seconds()/span*(c.Right-c.Left)
	}
	y := func(v float64) float64 {
		return c.Bottom - (v-minY)/(maxY-minY)*(c.Bottom-c.Top)
	}

	var hist, fc []string
	var lastHist string
	for _, p := range s.Points {
		pt := fmt.Sprintf("%.1f,%.1f", x(p.Date), y(p.Close))
		if p.Predicted {
			if len(fc) == 0 && lastHist != "" {
				fc = append(fc, lastHist)
			}
			fc = append(fc, pt)
			continue
		}
		hist = append(hist, pt)
		lastHist = pt
	}
	c.HistoricalPath = strings.Join(hist, " ")
	c.ForecastPath = strings.Join(fc, " ")

	if s.Boundary.Valid {
		c.HasMarker = true
		c.MarkerX = x(s.Boundary.Time)
	}

	for i := 0; i < yTicks; i++ {
		v := minY + (maxY-minY)*float64(i)/float64(yTicks-1)
		c.YTicks = append(c.YTicks, Tick{Pos: y(v), Label: fmt.Sprintf("%.2f", v)})
	}
	days := int(math.Round(maxT.Sub(minT).Hours() / 24))
	step := 1
	if days > 0 {
		step = int(math.Ceil(float64(days) / float64(xTicks-1)))
	}
	for d := 0; d <= days; d += step {
		t := minT.AddDate(0, 0, d)
		c.XTicks = append(c.XTicks, Tick{Pos: x(t), Label: t.Format("2006-01-02")})
	}
	return c
}
