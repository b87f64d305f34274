package provider

import (
	"errors"
	"fmt"
)

// ErrNetwork marks every failure to obtain a payload: transport errors and
// non-success responses alike.
var ErrNetwork = errors.New("network error")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.Code)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrNetwork }
