package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/cittafutura/booking-service/internal/dto"
	"github.com/cittafutura/booking-service/internal/ical"
	"github.com/cittafutura/booking-service/internal/models"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

const mimeCalendar = "text/calendar; charset=utf-8"

type CalendarHandler struct {
	svc service.CalendarService
}

func NewCalendarHandler(svc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

func (h *CalendarHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/calendar/house/:id", h.GetCalendar)
}

// GetCalendar serves JSON, or an iCalendar feed when the id carries an
// ".ics" suffix.
func (h *CalendarHandler) GetCalendar(c echo.Context) error {
	raw := c.Param("id")
	asICS := strings.HasSuffix(raw, ".ics")
	id, err := strconv.ParseUint(strings.TrimSuffix(raw, ".ics"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid house id")
	}

	ctx := c.Request().Context()
	seq, err := h.svc.BuildCalendar(ctx, uint(id))
	if err != nil {
		return toHTTPError(err)
	}

	if asICS {
		house, err := h.svc.House(ctx, uint(id))
		if err != nil {
			return toHTTPError(err)
		}
		var buf bytes.Buffer
		if err := ical.Write(&buf, house, seq); err != nil {
			return toHTTPError(err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="`+house.Slug+`.ics"`)
		return c.Blob(http.StatusOK, mimeCalendar, buf.Bytes())
	}

	events := []models.CalendarEvent{}
	for ev, err := range seq {
		if err != nil {
			return toHTTPError(err)
		}
		events = append(events, ev)
	}
	return c.JSON(http.StatusOK, dto.CalendarResponse{HouseID: uint(id), Events: events})
}
