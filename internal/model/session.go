package model

import "github.com/guregu/null/v6"

// Session is the state that outlives a single render.
//
// Tickers is overwritten at the top of every render. Selected survives a render only while it
// is still present in Tickers; otherwise it moves to the first ticker, or is cleared when the
// list is empty. Flash collects messages from an add action and is drained by the next render.
type Session struct {
	ID       string
	Selected null.String
	Tickers  TickerList
	Flash    []Message
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id, Tickers: TickerList{}}
}

// SelectedTicker returns the selected ticker and whether one is set.
func (s *Session) SelectedTicker() (Ticker, bool) {
	if !s.Selected.Valid || s.Selected.String == "" {
		return "", false
	}
	return Ticker(s.Selected.String), true
}

// Select sets the selected ticker.
func (s *Session) Select(t Ticker) {
	s.Selected = null.StringFrom(string(t))
}

// ClearSelection removes the selected ticker.
func (s *Session) ClearSelection() {
	s.Selected = null.String{}
}

// DrainFlash returns and clears pending messages.
func (s *Session) DrainFlash() []Message {
	msgs := s.Flash
	s.Flash = nil
	return msgs
}
