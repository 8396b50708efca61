package model

import "strings"

// Ticker is a short symbol identifying a tradable security, e.g. "AAPL".
type Ticker string

// NormalizeTicker trims surrounding whitespace and upper-cases a user-entered symbol.
func NormalizeTicker(raw string) Ticker {
	return Ticker(strings.ToUpper(strings.TrimSpace(raw)))
}

func (t Ticker) String() string { return string(t) }

// TickerList is the backend-reported list of tickers, in backend order.
type TickerList []Ticker

// Contains reports whether t is present in the list.
func (l TickerList) Contains(t Ticker) bool {
	for _, v := range l {
		if v == t {
			return true
		}
	}
	return false
}

// Match finds t in the list, preferring an exact match over a case-insensitive one.
// The returned ticker is spelled as the list spells it.
func (l TickerList) Match(t Ticker) (Ticker, bool) {
	if t == "" {
		return "", false
	}
	if l.Contains(t) {
		return t, true
	}
	for _, v := range l {
		if strings.EqualFold(string(v), string(t)) {
			return v, true
		}
	}
	return "", false
}
