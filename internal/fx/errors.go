package fx

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

// ErrMissingRate is returned when no rate, direct or inverse, covers a
// conversion.
var ErrMissingRate = errors.New("missing exchange rate")

// MissingRateError names the conversion that could not be made.
type MissingRateError struct {
	From string
	To   string
	On   civil.Date
}

func (e *MissingRateError) Error() string {
	return fmt.Sprintf("no %s->%s rate on or before %s", e.From, e.To, e.On)
}

// Unwrap lets errors.Is match ErrMissingRate.
func (e *MissingRateError) Unwrap() error {
	return ErrMissingRate
}
