package repository

import (
	"context"

	"github.com/cittafutura/booking-service/internal/models"
	"gorm.io/gorm"
)

type StatusEventRepository interface {
	Create(ctx context.Context, tx *gorm.DB, event *models.BookingStatusEvent) error
	FindByBooking(ctx context.Context, bookingID uint) ([]models.BookingStatusEvent, error)
}

type statusEventRepository struct {
	db *gorm.DB
}

func NewStatusEventRepository(db *gorm.DB) StatusEventRepository {
	return &statusEventRepository{db: db}
}

func (r *statusEventRepository) Create(ctx context.Context, tx *gorm.DB, event *models.BookingStatusEvent) error {
	return tx.WithContext(ctx).Create(event).Error
}

func (r *statusEventRepository) FindByBooking(ctx context.Context, bookingID uint) ([]models.BookingStatusEvent, error) {
	var events []models.BookingStatusEvent
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id ASC").
		Find(&events).Error
	return events, err
}
