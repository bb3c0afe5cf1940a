package service

import (
	"time"

	"github.com/cittafutura/booking-service/internal/models"
	log "github.com/sirupsen/logrus"
)

// Routing keys published on the bookings exchange.
const (
	KeyBookingCreated       = "booking.created"
	KeyBookingApproved      = "booking.approved"
	KeyBookingStatusChanged = "booking.status_changed"
	KeyBookingProposed      = "booking.proposed"
	KeyBookingReminder      = "booking.review_reminder"
	KeyBlackoutCreated      = "blackout.created"
	KeyBlackoutDeleted      = "blackout.deleted"
)

type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type BookingEvent struct {
	BookingID uint                 `json:"booking_id"`
	HouseID   uint                 `json:"house_id"`
	UserID    uint                 `json:"user_id"`
	Status    models.BookingStatus `json:"status"`
	Previous  models.BookingStatus `json:"previous_status,omitempty"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	ChangedBy uint                 `json:"changed_by,omitempty"`
}

type BlackoutEvent struct {
	BlackoutID uint      `json:"blackout_id"`
	HouseID    uint      `json:"house_id"`
	StartDate  time.Time `json:"start_date,omitempty"`
	EndDate    time.Time `json:"end_date,omitempty"`
}

func newBookingEvent(b *models.Booking, previous models.BookingStatus, actor uint) BookingEvent {
	return BookingEvent{
		BookingID: b.ID,
		HouseID:   b.HouseID,
		UserID:    b.UserID,
		Status:    b.Status,
		Previous:  previous,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		ChangedBy: actor,
	}
}

// publish is best effort: the write it describes is already committed.
func publish(p EventPublisher, key string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(key, payload); err != nil {
		log.WithField("component", "publisher").WithError(err).Warnf("failed to publish %s", key)
	}
}
