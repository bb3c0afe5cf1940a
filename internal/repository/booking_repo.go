package repository

import (
	"context"
	"time"

	"github.com/cittafutura/booking-service/internal/models"
	"gorm.io/gorm"
)

type BookingFilter struct {
	Status  *models.BookingStatus
	HouseID *uint
	From    *time.Time
	To      *time.Time
}

type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error)
	FindByExternalRef(ctx context.Context, tx *gorm.DB, ref string) (*models.Booking, error)
	FindByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	FindBlocking(ctx context.Context, tx *gorm.DB, houseID uint, excludeID *uint) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
	UpdateDates(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindInReviewStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return r.conn(tx).WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.conn(tx).WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByExternalRef(ctx context.Context, tx *gorm.DB, ref string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.conn(tx).WithContext(ctx).Where("external_ref = ?", ref).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("House").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).Preload("House").Preload("User")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.HouseID != nil {
		q = q.Where("house_id = ?", *filter.HouseID)
	}
	// Half-open overlap with [from, to).
	if filter.From != nil && filter.To != nil {
		q = q.Where("start_date < ? AND end_date > ?", *filter.To, *filter.From)
	}
	if err := q.Order("created_at DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindBlocking returns the bookings of a house that occupy its calendar,
// optionally leaving one booking out.
func (r *bookingRepository) FindBlocking(ctx context.Context, tx *gorm.DB, houseID uint, excludeID *uint) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.conn(tx).WithContext(ctx).
		Where("house_id = ? AND status IN ?", houseID, models.BlockingStatuses)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

// UpdateDates persists dates, notes and status of a counter-proposal.
func (r *bookingRepository) UpdateDates(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return r.conn(tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{
			"start_date": booking.StartDate,
			"end_date":   booking.EndDate,
			"notes":      booking.Notes,
			"status":     booking.Status,
			"updated_at": booking.UpdatedAt,
		}).Error
}

func (r *bookingRepository) FindInReviewStartingBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_date >= ? AND start_date < ?", models.StatusInReview, from, to).
		Order("start_date ASC").
		Find(&bookings).Error
	return bookings, err
}
