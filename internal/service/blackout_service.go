package service

import (
	"context"
	"errors"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"gorm.io/gorm"
)

type BlackoutService interface {
	CreateBlackout(ctx context.Context, houseID uint, interval availability.Interval, reason *string) (*models.Blackout, error)
	ListBlackouts(ctx context.Context, houseID uint) ([]models.Blackout, error)
	DeleteBlackout(ctx context.Context, id uint) error
}

type blackoutService struct {
	bookingRepo  repository.BookingRepository
	blackoutRepo repository.BlackoutRepository
	houseRepo    repository.HouseRepository
	guard        conflictGuard
	publisher    EventPublisher
}

func NewBlackoutService(
	bookingRepo repository.BookingRepository,
	blackoutRepo repository.BlackoutRepository,
	houseRepo repository.HouseRepository,
	publisher EventPublisher,
) BlackoutService {
	return &blackoutService{
		bookingRepo:  bookingRepo,
		blackoutRepo: blackoutRepo,
		houseRepo:    houseRepo,
		guard:        conflictGuard{bookingRepo: bookingRepo, blackoutRepo: blackoutRepo},
		publisher:    publisher,
	}
}

func (s *blackoutService) CreateBlackout(ctx context.Context, houseID uint, interval availability.Interval, reason *string) (*models.Blackout, error) {
	if err := availability.ValidateRange(interval.Start, interval.End); err != nil {
		return nil, err
	}

	var result *models.Blackout

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.houseRepo.FindByIDForUpdate(ctx, tx, houseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}

		if err := s.guard.assertNoConflict(ctx, tx, houseID, interval, nil); err != nil {
			return err
		}

		blackout := &models.Blackout{
			HouseID:   houseID,
			StartDate: interval.Start,
			EndDate:   interval.End,
			Reason:    reason,
		}
		if err := s.blackoutRepo.Create(ctx, tx, blackout); err != nil {
			return err
		}
		result = blackout
		return nil
	})
	if err != nil {
		if repository.IsOverlapViolation(err) {
			return nil, s.guard.afterRace(ctx, houseID, interval, nil)
		}
		return nil, err
	}

	publish(s.publisher, KeyBlackoutCreated, BlackoutEvent{
		BlackoutID: result.ID,
		HouseID:    result.HouseID,
		StartDate:  result.StartDate,
		EndDate:    result.EndDate,
	})
	return result, nil
}

func (s *blackoutService) ListBlackouts(ctx context.Context, houseID uint) ([]models.Blackout, error) {
	if _, err := s.houseRepo.FindByID(ctx, houseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return s.blackoutRepo.FindByHouse(ctx, nil, houseID)
}

func (s *blackoutService) DeleteBlackout(ctx context.Context, id uint) error {
	blackout, err := s.blackoutRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlackoutNotFound
		}
		return err
	}
	if err := s.blackoutRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBlackoutNotFound
		}
		return err
	}

	publish(s.publisher, KeyBlackoutDeleted, BlackoutEvent{BlackoutID: id, HouseID: blackout.HouseID})
	return nil
}
