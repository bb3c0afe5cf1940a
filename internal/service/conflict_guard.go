package service

import (
	"context"
	"fmt"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/repository"
	"gorm.io/gorm"
)

// conflictGuard loads the blocking intervals of a house and checks a
// candidate against them.
type conflictGuard struct {
	bookingRepo  repository.BookingRepository
	blackoutRepo repository.BlackoutRepository
}

func (g conflictGuard) blocking(ctx context.Context, tx *gorm.DB, houseID uint, excludeBookingID *uint) ([]availability.Blocking, error) {
	bookings, err := g.bookingRepo.FindBlocking(ctx, tx, houseID, excludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("load blocking bookings: %w", err)
	}
	blackouts, err := g.blackoutRepo.FindByHouse(ctx, tx, houseID)
	if err != nil {
		return nil, fmt.Errorf("load blackouts: %w", err)
	}

	out := make([]availability.Blocking, 0, len(bookings)+len(blackouts))
	for i := range bookings {
		out = append(out, availability.Blocking{
			ID:       bookings[i].ID,
			Kind:     availability.KindBooking,
			Interval: bookings[i].Interval(),
		})
	}
	for i := range blackouts {
		out = append(out, availability.Blocking{
			ID:       blackouts[i].ID,
			Kind:     availability.KindBlackout,
			Interval: blackouts[i].Interval(),
		})
	}
	return out, nil
}

// assertNoConflict must run in the same transaction as the dependent write,
// after the house row has been locked.
func (g conflictGuard) assertNoConflict(ctx context.Context, tx *gorm.DB, houseID uint, candidate availability.Interval, excludeBookingID *uint) error {
	existing, err := g.blocking(ctx, tx, houseID, excludeBookingID)
	if err != nil {
		return err
	}
	return availability.CheckConflict(candidate, existing)
}

// afterRace turns an exclusion-constraint violation into a ConflictError that
// names the interval which won the commit.
func (g conflictGuard) afterRace(ctx context.Context, houseID uint, candidate availability.Interval, excludeBookingID *uint) error {
	if err := g.assertNoConflict(ctx, nil, houseID, candidate, excludeBookingID); err != nil {
		return err
	}
	return fmt.Errorf("%w: lost a concurrent update", availability.ErrConflict)
}
