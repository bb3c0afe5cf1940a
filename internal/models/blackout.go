package models

import (
	"time"

	"github.com/cittafutura/booking-service/internal/availability"
)

// Blackout blocks a house for a period regardless of bookings.
type Blackout struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HouseID   uint      `gorm:"not null;index" json:"house_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *Blackout) Interval() availability.Interval {
	return availability.Interval{Start: b.StartDate, End: b.EndDate}
}
