package handler

import (
	"context"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/middleware"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn  func(ctx context.Context, userID uint, in service.CreateBookingInput) (*models.Booking, error)
	getFn     func(ctx context.Context, id uint) (*models.Booking, error)
	mineFn    func(ctx context.Context, userID uint) ([]models.Booking, error)
	listFn    func(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	approveFn func(ctx context.Context, id uint) (*models.Booking, error)
	statusFn  func(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error)
	proposeFn func(ctx context.Context, id uint, interval availability.Interval, note *string) (*models.Booking, error)
	historyFn func(ctx context.Context, id uint) ([]models.BookingStatusEvent, error)
}

func (m *mockBookingService) CreateBooking(ctx context.Context, userID uint, in service.CreateBookingInput) (*models.Booking, error) {
	return m.createFn(ctx, userID, in)
}
func (m *mockBookingService) IntakeRequest(ctx context.Context, req models.IntakeRequest) (*models.Booking, error) {
	return nil, nil
}
func (m *mockBookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) ListMyBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	return m.mineFn(ctx, userID)
}
func (m *mockBookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error) {
	return m.listFn(ctx, filter)
}
func (m *mockBookingService) ApproveBooking(ctx context.Context, id uint) (*models.Booking, error) {
	return m.approveFn(ctx, id)
}
func (m *mockBookingService) UpdateStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	return m.statusFn(ctx, id, status)
}
func (m *mockBookingService) ProposeNewDates(ctx context.Context, id uint, interval availability.Interval, note *string) (*models.Booking, error) {
	return m.proposeFn(ctx, id, interval, note)
}
func (m *mockBookingService) History(ctx context.Context, id uint) ([]models.BookingStatusEvent, error) {
	return m.historyFn(ctx, id)
}
func (m *mockBookingService) RemindPendingReviews(ctx context.Context, window time.Duration) (int, error) {
	return 0, nil
}

// --- Mock HouseService ---

type mockHouseService struct {
	createFn func(ctx context.Context, in service.HouseInput) (*models.House, error)
	getFn    func(ctx context.Context, slug string) (*models.House, error)
	listFn   func(ctx context.Context, filter repository.HouseFilter) ([]models.House, error)
	updateFn func(ctx context.Context, id uint, in service.HouseUpdate) (*models.House, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockHouseService) CreateHouse(ctx context.Context, in service.HouseInput) (*models.House, error) {
	return m.createFn(ctx, in)
}
func (m *mockHouseService) GetHouseBySlug(ctx context.Context, slug string) (*models.House, error) {
	return m.getFn(ctx, slug)
}
func (m *mockHouseService) ListHouses(ctx context.Context, filter repository.HouseFilter) ([]models.House, error) {
	return m.listFn(ctx, filter)
}
func (m *mockHouseService) UpdateHouse(ctx context.Context, id uint, in service.HouseUpdate) (*models.House, error) {
	return m.updateFn(ctx, id, in)
}
func (m *mockHouseService) DeleteHouse(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Mock BlackoutService ---

type mockBlackoutService struct {
	createFn func(ctx context.Context, houseID uint, interval availability.Interval, reason *string) (*models.Blackout, error)
	listFn   func(ctx context.Context, houseID uint) ([]models.Blackout, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (m *mockBlackoutService) CreateBlackout(ctx context.Context, houseID uint, interval availability.Interval, reason *string) (*models.Blackout, error) {
	return m.createFn(ctx, houseID, interval, reason)
}
func (m *mockBlackoutService) ListBlackouts(ctx context.Context, houseID uint) ([]models.Blackout, error) {
	return m.listFn(ctx, houseID)
}
func (m *mockBlackoutService) DeleteBlackout(ctx context.Context, id uint) error {
	return m.deleteFn(ctx, id)
}

// --- Mock CalendarService ---

type mockCalendarService struct {
	events []models.CalendarEvent
	house  *models.House
	err    error
}

func (m *mockCalendarService) BuildCalendar(ctx context.Context, houseID uint) (iter.Seq2[models.CalendarEvent, error], error) {
	if m.err != nil {
		return nil, m.err
	}
	return func(yield func(models.CalendarEvent, error) bool) {
		for _, ev := range m.events {
			if !yield(ev, nil) {
				return
			}
		}
	}, nil
}
func (m *mockCalendarService) House(ctx context.Context, houseID uint) (*models.House, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.house, nil
}

// --- Mock AuthService ---

type mockAuthService struct {
	registerFn func(ctx context.Context, email, password string, name *string) (*models.User, string, error)
	loginFn    func(ctx context.Context, email, password string) (*models.User, string, error)
	meFn       func(ctx context.Context, userID uint) (*models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password string, name *string) (*models.User, string, error) {
	return m.registerFn(ctx, email, password, name)
}
func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	return m.loginFn(ctx, email, password)
}
func (m *mockAuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return m.meFn(ctx, userID)
}
func (m *mockAuthService) ParseToken(token string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}
func (m *mockAuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	return false, nil
}

// --- Helpers ---

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler
	return e
}

// call runs h against a fresh context and renders a returned error the way
// the server would. params alternate name and value.
func call(e *echo.Echo, h echo.HandlerFunc, req *http.Request, params ...string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
