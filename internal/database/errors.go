package database

import (
	"errors"
	"fmt"
)

// ErrUnitNotFound reports that the inventory unit referenced by a
// reservation is missing or inactive.
var ErrUnitNotFound = errors.New("inventory unit not found")

// ErrRateCalendarGap reports that a stay window covers nights with no
// rate record.
var ErrRateCalendarGap = errors.New("rate calendar gap for requested dates")

// ErrNightUnavailable reports that at least one night in a stay window
// has no remaining availability.
var ErrNightUnavailable = errors.New("no availability for one or more nights")

// ErrAlreadyCancelled reports that a cancel transition matched no row
// because an earlier cancel already made the booking CANCELLED.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// CapacityError reports that a reservation asked for more seats than
// the unit has left. Available carries the actual remaining capacity.
type CapacityError struct {
	Available int
	Unit      string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d seats available in %s", e.Available, e.Unit)
}
