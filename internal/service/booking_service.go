package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cittafutura/booking-service/internal/authctx"
	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	HouseID  uint
	Interval availability.Interval
	People   int
	Notes    *string
}

type BookingService interface {
	CreateBooking(ctx context.Context, userID uint, in CreateBookingInput) (*models.Booking, error)
	IntakeRequest(ctx context.Context, req models.IntakeRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListMyBookings(ctx context.Context, userID uint) ([]models.Booking, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	ApproveBooking(ctx context.Context, id uint) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error)
	ProposeNewDates(ctx context.Context, id uint, interval availability.Interval, note *string) (*models.Booking, error)
	History(ctx context.Context, id uint) ([]models.BookingStatusEvent, error)
	RemindPendingReviews(ctx context.Context, window time.Duration) (int, error)
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	houseRepo   repository.HouseRepository
	userRepo    repository.UserRepository
	eventRepo   repository.StatusEventRepository
	guard       conflictGuard
	publisher   EventPublisher
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	houseRepo repository.HouseRepository,
	blackoutRepo repository.BlackoutRepository,
	userRepo repository.UserRepository,
	eventRepo repository.StatusEventRepository,
	publisher EventPublisher,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		houseRepo:   houseRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		guard:       conflictGuard{bookingRepo: bookingRepo, blackoutRepo: blackoutRepo},
		publisher:   publisher,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uint, in CreateBookingInput) (*models.Booking, error) {
	if err := availability.ValidateRange(in.Interval.Start, in.Interval.End); err != nil {
		return nil, err
	}
	if in.People <= 0 {
		return nil, ErrInvalidPeople
	}

	house, err := s.houseRepo.FindByID(ctx, in.HouseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	if in.People > house.Capacity {
		return nil, ErrOverCapacity
	}

	booking := &models.Booking{
		HouseID:   house.ID,
		UserID:    userID,
		StartDate: in.Interval.Start,
		EndDate:   in.Interval.End,
		People:    in.People,
		Notes:     in.Notes,
		Status:    models.StatusInReview,
	}
	if err := s.bookingRepo.Create(ctx, nil, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	publish(s.publisher, KeyBookingCreated, newBookingEvent(booking, "", userID))
	return booking, nil
}

// IntakeRequest stores a request coming from an external channel. Requests are
// deduplicated by external ref; unknown guests get a password-less account.
func (s *bookingService) IntakeRequest(ctx context.Context, req models.IntakeRequest) (*models.Booking, error) {
	if req.ExternalRef == "" || req.GuestEmail == "" || req.HouseSlug == "" {
		return nil, errors.New("external_ref, guest_email and house_slug are required")
	}
	interval, err := availability.ParseRange(req.Arrival, req.Departure)
	if err != nil {
		return nil, err
	}
	if req.Guests <= 0 {
		return nil, ErrInvalidPeople
	}

	var result *models.Booking
	created := false

	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := s.bookingRepo.FindByExternalRef(ctx, tx, req.ExternalRef)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		house, err := s.houseRepo.FindBySlug(ctx, tx, req.HouseSlug)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHouseNotFound
			}
			return err
		}
		if req.Guests > house.Capacity {
			return ErrOverCapacity
		}

		email := strings.ToLower(strings.TrimSpace(req.GuestEmail))
		user, err := s.userRepo.FindByEmail(ctx, tx, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = &models.User{Email: email, Role: models.RoleUser}
			if req.GuestName != "" {
				name := req.GuestName
				user.Name = &name
			}
			err = s.userRepo.Create(ctx, tx, user)
		}
		if err != nil {
			return err
		}

		ref := req.ExternalRef
		booking := &models.Booking{
			HouseID:     house.ID,
			UserID:      user.ID,
			StartDate:   interval.Start,
			EndDate:     interval.End,
			People:      req.Guests,
			Status:      models.StatusInReview,
			ExternalRef: &ref,
		}
		if req.Notes != "" {
			notes := req.Notes
			booking.Notes = &notes
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		created = true
		return nil
	})
	if err != nil {
		// Same ref delivered twice in parallel: the other delivery won.
		if repository.IsUniqueViolation(err) {
			return s.bookingRepo.FindByExternalRef(ctx, nil, req.ExternalRef)
		}
		return nil, err
	}

	if created {
		publish(s.publisher, KeyBookingCreated, newBookingEvent(result, "", 0))
	}
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	return s.bookingRepo.FindByUser(ctx, userID)
}

func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	return s.bookingRepo.List(ctx, filter)
}

// lockBooking loads a booking and takes the row lock of its house, then
// re-reads the booking so the caller sees what the previous lock holder
// committed.
func (s *bookingService) lockBooking(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if _, err := s.houseRepo.FindByIDForUpdate(ctx, tx, booking.HouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}

	booking, err = s.bookingRepo.FindByID(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return s.transition(ctx, id, models.StatusApproved)
}

// UpdateStatus allows any administrative transition. Entering a blocking
// status from a non-blocking one goes through the same conflict check as an
// approval.
func (s *bookingService) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.transition(ctx, id, status)
}

func (s *bookingService) transition(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	actor := authctx.ActorID(ctx)
	var (
		result   *models.Booking
		previous models.BookingStatus
	)

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		result = booking
		previous = booking.Status

		if status == models.StatusApproved && booking.Status == models.StatusApproved {
			return ErrAlreadyApproved
		}

		if status.IsBlocking() && !booking.Status.IsBlocking() {
			if err := s.guard.assertNoConflict(ctx, tx, booking.HouseID, booking.Interval(), &booking.ID); err != nil {
				return err
			}
		}

		if err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, status); err != nil {
			return err
		}
		if err := s.eventRepo.Create(ctx, tx, &models.BookingStatusEvent{
			BookingID:  booking.ID,
			FromStatus: previous,
			ToStatus:   status,
			ChangedBy:  actor,
		}); err != nil {
			return err
		}

		booking.Status = status
		booking.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		if repository.IsOverlapViolation(err) && result != nil {
			return nil, s.guard.afterRace(ctx, result.HouseID, result.Interval(), &result.ID)
		}
		return nil, err
	}

	key := KeyBookingStatusChanged
	if status == models.StatusApproved {
		key = KeyBookingApproved
	}
	publish(s.publisher, key, newBookingEvent(result, previous, actor))
	return result, nil
}

// ProposeNewDates moves a request to new dates and puts it back in review.
// There is no conflict check here; approval enforces availability later.
// It still holds the house lock so it serializes with approvals.
func (s *bookingService) ProposeNewDates(ctx context.Context, id uint, interval availability.Interval, note *string) (*models.Booking, error) {
	if err := availability.ValidateRange(interval.Start, interval.End); err != nil {
		return nil, err
	}

	actor := authctx.ActorID(ctx)
	var (
		result   *models.Booking
		previous models.BookingStatus
	)

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// The new dates leave the blocking set only once this commits, so a
		// concurrent approval must not see the old dates after we start.
		booking, err := s.lockBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = booking.Status

		booking.StartDate = interval.Start
		booking.EndDate = interval.End
		booking.Notes = mergeNotes(note, booking.Notes)
		booking.Status = models.StatusInReview
		booking.UpdatedAt = time.Now()

		if err := s.bookingRepo.UpdateDates(ctx, tx, booking); err != nil {
			return err
		}
		if err := s.eventRepo.Create(ctx, tx, &models.BookingStatusEvent{
			BookingID:  booking.ID,
			FromStatus: previous,
			ToStatus:   models.StatusInReview,
			ChangedBy:  actor,
			Note:       note,
		}); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(s.publisher, KeyBookingProposed, newBookingEvent(result, previous, actor))
	return result, nil
}

// mergeNotes puts the manager's message first and keeps earlier notes below it.
func mergeNotes(note, previous *string) *string {
	if note == nil || strings.TrimSpace(*note) == "" {
		return previous
	}
	merged := *note
	if previous != nil && *previous != "" {
		merged += "\n\nPrevious notes:\n" + *previous
	}
	return &merged
}

func (s *bookingService) History(ctx context.Context, id uint) ([]models.BookingStatusEvent, error) {
	if _, err := s.GetBooking(ctx, id); err != nil {
		return nil, err
	}
	return s.eventRepo.FindByBooking(ctx, id)
}

// RemindPendingReviews publishes a reminder for every request still in review
// whose stay starts within window.
func (s *bookingService) RemindPendingReviews(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now()
	bookings, err := s.bookingRepo.FindInReviewStartingBetween(ctx, now, now.Add(window))
	if err != nil {
		return 0, fmt.Errorf("find pending reviews: %w", err)
	}
	for i := range bookings {
		publish(s.publisher, KeyBookingReminder, newBookingEvent(&bookings[i], "", 0))
	}
	return len(bookings), nil
}
