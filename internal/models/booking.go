package models

import (
	"time"

	"github.com/cittafutura/booking-service/internal/availability"
)

type BookingStatus string

const (
	StatusInReview   BookingStatus = "IN_REVIEW"
	StatusApproved   BookingStatus = "APPROVED"
	StatusRejected   BookingStatus = "REJECTED"
	StatusCheckedIn  BookingStatus = "CHECKED_IN"
	StatusCheckedOut BookingStatus = "CHECKED_OUT"
	StatusCancelled  BookingStatus = "CANCELLED"
)

var BookingStatuses = []BookingStatus{
	StatusInReview,
	StatusApproved,
	StatusRejected,
	StatusCheckedIn,
	StatusCheckedOut,
	StatusCancelled,
}

// BlockingStatuses occupy the house calendar.
var BlockingStatuses = []BookingStatus{StatusApproved, StatusCheckedIn}

func (s BookingStatus) Valid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsBlocking() bool {
	return s == StatusApproved || s == StatusCheckedIn
}

type Booking struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	HouseID     uint          `gorm:"not null;index" json:"house_id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	StartDate   time.Time     `gorm:"not null" json:"start_date"`
	EndDate     time.Time     `gorm:"not null" json:"end_date"`
	People      int           `gorm:"not null" json:"people"`
	Notes       *string       `json:"notes,omitempty"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:'IN_REVIEW';index" json:"status"`
	ExternalRef *string       `gorm:"uniqueIndex" json:"external_ref,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	House *House `gorm:"foreignKey:HouseID" json:"house,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (b *Booking) Interval() availability.Interval {
	return availability.Interval{Start: b.StartDate, End: b.EndDate}
}
