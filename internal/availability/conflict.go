package availability

import (
	"errors"
	"fmt"
)

var ErrConflict = errors.New("date range conflicts with an existing blocking interval")

type Kind string

const (
	KindBooking  Kind = "booking"
	KindBlackout Kind = "blackout"
)

// Blocking is an interval that counts against availability.
type Blocking struct {
	ID       uint
	Kind     Kind
	Interval Interval
}

// ConflictError names the blocking record a candidate interval collides with.
type ConflictError struct {
	Kind Kind
	ID   uint
}

func (e *ConflictError) Error() string {
	switch e.Kind {
	case KindBlackout:
		return fmt.Sprintf("the requested dates are blocked by blackout %d", e.ID)
	default:
		return fmt.Sprintf("an approved booking (%d) already exists for the same dates", e.ID)
	}
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// CheckConflict tests candidate against every blocking interval. Bookings are
// reported before blackouts when both collide.
func CheckConflict(candidate Interval, existing []Blocking) error {
	var blackout *ConflictError
	for _, b := range existing {
		if !Overlaps(candidate, b.Interval) {
			continue
		}
		if b.Kind == KindBooking {
			return &ConflictError{Kind: KindBooking, ID: b.ID}
		}
		if blackout == nil {
			blackout = &ConflictError{Kind: KindBlackout, ID: b.ID}
		}
	}
	if blackout != nil {
		return blackout
	}
	return nil
}
