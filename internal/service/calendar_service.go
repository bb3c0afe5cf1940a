package service

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"gorm.io/gorm"
)

type CalendarService interface {
	BuildCalendar(ctx context.Context, houseID uint) (iter.Seq2[models.CalendarEvent, error], error)
	House(ctx context.Context, houseID uint) (*models.House, error)
}

type calendarService struct {
	houseRepo    repository.HouseRepository
	bookingRepo  repository.BookingRepository
	blackoutRepo repository.BlackoutRepository
}

func NewCalendarService(houseRepo repository.HouseRepository, bookingRepo repository.BookingRepository, blackoutRepo repository.BlackoutRepository) CalendarService {
	return &calendarService{houseRepo: houseRepo, bookingRepo: bookingRepo, blackoutRepo: blackoutRepo}
}

func (s *calendarService) House(ctx context.Context, houseID uint) (*models.House, error) {
	house, err := s.houseRepo.FindByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return house, nil
}

// BuildCalendar checks the house exists and returns a sequence of its
// blocking bookings and blackouts. Nothing is read until the sequence is
// ranged over, and every range reads the store again. Order is unspecified.
func (s *calendarService) BuildCalendar(ctx context.Context, houseID uint) (iter.Seq2[models.CalendarEvent, error], error) {
	if _, err := s.House(ctx, houseID); err != nil {
		return nil, err
	}

	return func(yield func(models.CalendarEvent, error) bool) {
		bookings, err := s.bookingRepo.FindBlocking(ctx, nil, houseID, nil)
		if err != nil {
			yield(models.CalendarEvent{}, fmt.Errorf("load bookings: %w", err))
			return
		}
		for i := range bookings {
			if !yield(bookingCalendarEvent(&bookings[i]), nil) {
				return
			}
		}

		blackouts, err := s.blackoutRepo.FindByHouse(ctx, nil, houseID)
		if err != nil {
			yield(models.CalendarEvent{}, fmt.Errorf("load blackouts: %w", err))
			return
		}
		for i := range blackouts {
			if !yield(blackoutCalendarEvent(&blackouts[i]), nil) {
				return
			}
		}
	}, nil
}

func bookingCalendarEvent(b *models.Booking) models.CalendarEvent {
	label := fmt.Sprintf("Approved booking (%d guests)", b.People)
	if b.Status == models.StatusCheckedIn {
		label = fmt.Sprintf("Guests checked in (%d guests)", b.People)
	}
	return models.CalendarEvent{
		ID:    b.ID,
		Kind:  availability.KindBooking,
		Start: b.StartDate,
		End:   b.EndDate,
		Label: label,
		Note:  b.Notes,
	}
}

func blackoutCalendarEvent(b *models.Blackout) models.CalendarEvent {
	label := "Unavailable"
	if b.Reason != nil && *b.Reason != "" {
		label = *b.Reason
	}
	return models.CalendarEvent{
		ID:    b.ID,
		Kind:  availability.KindBlackout,
		Start: b.StartDate,
		End:   b.EndDate,
		Label: label,
	}
}
