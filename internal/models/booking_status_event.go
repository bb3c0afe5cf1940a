package models

import "time"

// BookingStatusEvent is an append-only record of a booking status change.
type BookingStatusEvent struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	BookingID  uint          `gorm:"not null;index" json:"booking_id"`
	FromStatus BookingStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   BookingStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  uint          `gorm:"not null;default:0" json:"changed_by"`
	Note       *string       `json:"note,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
