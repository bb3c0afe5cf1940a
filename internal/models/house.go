package models

import (
	"time"

	"github.com/lib/pq"
)

type House struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`
	Title     string         `gorm:"not null" json:"title"`
	Summary   *string        `json:"summary,omitempty"`
	Capacity  int            `gorm:"not null;default:4" json:"capacity"`
	Services  pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"services"`
	Photos    pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"photos"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Bookings  []Booking  `gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE" json:"bookings,omitempty"`
	Blackouts []Blackout `gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE" json:"blackouts,omitempty"`
}
