package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers transport failures and non-2xx responses.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrMalformed is returned when a response cannot be decoded into the expected shape.
	ErrMalformed = errors.New("malformed backend response")
	// ErrNoData is returned when a response decodes but carries no data points.
	ErrNoData = errors.New("no data")
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: status %d, body: %s", e.Endpoint, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrUnavailable }
