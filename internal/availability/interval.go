// Package availability holds the date-interval rules that decide whether a
// house can take a new blocking interval. It does no I/O.
package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidRange = errors.New("invalid date range")

const dateLayout = "2006-01-02"

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// ValidateRange requires both bounds to be set and start strictly before end.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: the start date must be before the end date", ErrInvalidRange)
	}
	return nil
}

// NewInterval validates the bounds and builds an Interval.
func NewInterval(start, end time.Time) (Interval, error) {
	if err := ValidateRange(start, end); err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: end}, nil
}

// ParseRange accepts YYYY-MM-DD (midnight UTC) or RFC 3339 bounds.
func ParseRange(start, end string) (Interval, error) {
	s, err := parseInstant(start)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: start %q: %v", ErrInvalidRange, start, err)
	}
	e, err := parseInstant(end)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: end %q: %v", ErrInvalidRange, end, err)
	}
	return NewInterval(s, e)
}

func parseInstant(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(dateLayout, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

// Overlaps reports whether a and b share any instant. Adjacent intervals
// (a.End == b.Start) do not overlap. Both intervals must be valid.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i, other)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}
