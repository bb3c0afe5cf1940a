package handler

import (
	"errors"
	"net/http"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/dto"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps service errors to HTTP errors. Unknown errors pass through
// and end up as 500.
func toHTTPError(err error) error {
	var conflict *availability.ConflictError
	switch {
	case errors.As(err, &conflict):
		return echo.NewHTTPError(http.StatusConflict, dto.ToConflictResponse(conflict))
	case errors.Is(err, availability.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, availability.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidPeople),
		errors.Is(err, service.ErrOverCapacity),
		errors.Is(err, service.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrHouseNotFound),
		errors.Is(err, service.ErrBlackoutNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrAlreadyApproved),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return err
}
