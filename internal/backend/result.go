package backend

import "ForecastBoard/internal/model"

// AddOutcome tags the result of an add-ticker attempt.
type AddOutcome int

const (
	AddAdded AddOutcome = iota + 1
	AddInvalid
	AddTransportFailure
)

func (o AddOutcome) String() string {
	switch o {
	case AddAdded:
		return "added"
	case AddInvalid:
		return "invalid"
	case AddTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// AddResult is the outcome of AddTicker. Message is set for AddAdded, Err for AddTransportFailure.
type AddResult struct {
	Outcome AddOutcome
	Ticker  model.Ticker
	Message string
	Err     error
}
