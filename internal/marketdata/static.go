package marketdata

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"ForecastBoard/internal/model"
)

// StaticOracle knows a fixed set of symbols. Used for offline development and tests.
type StaticOracle struct {
	Symbols map[string]bool
	Price   float64
	Err     error
	Calls   atomic.Int32
}

// NewStaticOracle creates an oracle that accepts exactly the given symbols.
func NewStaticOracle(symbols ...string) *StaticOracle {
	o := &StaticOracle{Symbols: make(map[string]bool, len(symbols)), Price: 100}
	for _, s := range symbols {
		o.Symbols[strings.ToUpper(s)] = true
	}
	return o
}

func (s *StaticOracle) Name() string { return "static" }

func (s *StaticOracle) FetchLastDay(_ context.Context, symbol string) ([]model.Bar, error) {
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	if !s.Symbols[strings.ToUpper(symbol)] {
		return nil, nil
	}
	return []model.Bar{{
		Time:   time.Now().UTC().Truncate(24 * time.Hour),
		Open:   s.Price * 0.999,
		High:   s.Price * 1.005,
		Low:    s.Price * 0.995,
		Close:  s.Price,
		Volume: 1000000,
	}}, nil
}
