package dashboard

// State is a step of the render cycle.
type State string

const (
	StateIdle                State = "idle"
	StateListingTickers      State = "listing_tickers"
	StateAwaitingSelection   State = "awaiting_selection"
	StateHasSelection        State = "has_selection"
	StateFetchingHistorical  State = "fetching_historical"
	StateNoData              State = "no_data"
	StateHasHistorical       State = "has_historical"
	StateFetchingPredictions State = "fetching_predictions"
	StateCombined            State = "combined"
	StateHistoricalOnly      State = "historical_only"
)

// Terminal reports whether a render ends in s.
func (s State) Terminal() bool {
	switch s {
	case StateAwaitingSelection, StateNoData, StateCombined, StateHistoricalOnly:
		return true
	}
	return false
}
