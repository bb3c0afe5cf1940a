package handler

import (
	"net/http"
	"strconv"

	"github.com/cittafutura/booking-service/internal/authctx"
	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/dto"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/repository"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	bookings := g.Group("/bookings", guards.Auth)
	bookings.POST("", h.CreateBooking, guards.Idempotency)
	bookings.GET("/me", h.ListMyBookings)

	bookings.GET("", h.ListBookings, guards.Staff)
	bookings.GET("/:id", h.GetBooking, guards.Staff)
	bookings.GET("/:id/history", h.History, guards.Staff)
	bookings.PATCH("/:id/status", h.UpdateStatus, guards.Staff, guards.Idempotency)
	bookings.POST("/:id/approve", h.ApproveBooking, guards.Staff, guards.Idempotency)
	bookings.POST("/:id/propose", h.ProposeNewDates, guards.Staff, guards.Idempotency)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	interval, err := availability.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	booking, err := h.svc.CreateBooking(ctx, authctx.ActorID(ctx), service.CreateBookingInput{
		HouseID:  req.HouseID,
		Interval: interval,
		People:   req.People,
		Notes:    req.Notes,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	ctx := c.Request().Context()
	bookings, err := h.svc.ListMyBookings(ctx, authctx.ActorID(ctx))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	var filter repository.BookingFilter

	if s := c.QueryParam("status"); s != "" {
		status := models.BookingStatus(s)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, service.ErrInvalidStatus.Error())
		}
		filter.Status = &status
	}
	if s := c.QueryParam("house_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid house id")
		}
		houseID := uint(id)
		filter.HouseID = &houseID
	}
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from != "" || to != "" {
		window, err := availability.ParseRange(from, to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		filter.From, filter.To = &window.Start, &window.End
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "id", "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) History(c echo.Context) error {
	id, err := parseID(c, "id", "booking")
	if err != nil {
		return err
	}

	events, err := h.svc.History(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.StatusEventResponse, len(events))
	for i := range events {
		resp[i] = dto.ToStatusEventResponse(&events[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id", "booking")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.UpdateStatus(c.Request().Context(), id, models.BookingStatus(req.Status))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ApproveBooking(c echo.Context) error {
	id, err := parseID(c, "id", "booking")
	if err != nil {
		return err
	}

	booking, err := h.svc.ApproveBooking(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ProposeNewDates(c echo.Context) error {
	id, err := parseID(c, "id", "booking")
	if err != nil {
		return err
	}
	var req dto.ProposeDatesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	interval, err := availability.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.svc.ProposeNewDates(c.Request().Context(), id, interval, req.Note)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
