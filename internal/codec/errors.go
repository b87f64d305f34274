package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the input ends inside a record.
	ErrTruncated = errors.New("truncated input")
	// ErrBadMagic is returned when the input is not a catalog cache.
	ErrBadMagic = errors.New("not a catalog cache")
	// ErrUnsupportedVersion is returned for a cache written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported cache format version")
	// ErrTrailingData is returned when bytes remain after the last record.
	ErrTrailingData = errors.New("trailing data after catalog")
	// ErrInvalidTag is returned for a presence byte other than 0 or 1.
	ErrInvalidTag = errors.New("invalid presence tag")
)

// DecodeError reports a corrupted cache and where decoding stopped.
type DecodeError struct {
	Offset  int
	Section string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding catalog cache at offset %d (%s): %v", e.Offset, e.Section, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
