package marketdata

import (
	"context"
	"strings"

	"ForecastBoard/internal/logger"
	"ForecastBoard/internal/metrics"
	"ForecastBoard/internal/model"

	"go.uber.org/zap"
)

// Oracle answers whether a symbol traded on the most recent trading day.
type Oracle interface {
	FetchLastDay(ctx context.Context, symbol string) ([]model.Bar, error)
	Name() string
}

// IsValidTicker reports whether the provider returns at least one trading day for candidate.
// Provider errors count as invalid.
func IsValidTicker(ctx context.Context, o Oracle, candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		metrics.TickerValidations.WithLabelValues(o.Name(), "invalid").Inc()
		return false
	}
	bars, err := o.FetchLastDay(ctx, candidate)
	if err != nil {
		logger.Log.Debug("ticker validation failed",
			zap.String("provider", o.Name()), zap.String("ticker", candidate), zap.Error(err))
		metrics.TickerValidations.WithLabelValues(o.Name(), "error").Inc()
		return false
	}
	if len(bars) == 0 {
		metrics.TickerValidations.WithLabelValues(o.Name(), "invalid").Inc()
		return false
	}
	metrics.TickerValidations.WithLabelValues(o.Name(), "valid").Inc()
	return true
}
