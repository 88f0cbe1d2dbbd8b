package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange   = errors.New("invalid year range")
	ErrUnknownCountry = errors.New("unknown country")
)

// InvalidRangeError reports a requested year range that is inverted or
// leaves [FirstYear, LastYear].
type InvalidRangeError struct {
	From, To int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid year range %d..%d (supported %d..%d)", e.From, e.To, FirstYear, LastYear)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// UnknownCountryError reports a country with no registered growth model.
type UnknownCountryError struct {
	Country string
}

func (e *UnknownCountryError) Error() string {
	return fmt.Sprintf("unknown country %q", e.Country)
}

func (e *UnknownCountryError) Is(target error) bool { return target == ErrUnknownCountry }

// CheckRange validates an inclusive year range.
func CheckRange(from, to int) error {
	if from > to || from < FirstYear || to > LastYear {
		return &InvalidRangeError{From: from, To: to}
	}
	return nil
}
