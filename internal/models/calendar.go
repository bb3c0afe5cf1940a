package models

import (
	"time"

	"github.com/cittafutura/booking-service/internal/availability"
)

// CalendarEvent is a read-side projection of a booking or blackout.
type CalendarEvent struct {
	ID    uint              `json:"id"`
	Kind  availability.Kind `json:"type"`
	Start time.Time         `json:"start_date"`
	End   time.Time         `json:"end_date"`
	Label string            `json:"title"`
	Note  *string           `json:"notes,omitempty"`
}
