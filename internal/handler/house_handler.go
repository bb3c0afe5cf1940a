package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/dto"
	"github.com/cittafutura/booking-service/internal/repository"
	"github.com/cittafutura/booking-service/internal/service"
	"github.com/labstack/echo/v4"
)

type HouseHandler struct {
	houses    service.HouseService
	blackouts service.BlackoutService
}

func NewHouseHandler(houses service.HouseService, blackouts service.BlackoutService) *HouseHandler {
	return &HouseHandler{houses: houses, blackouts: blackouts}
}

func (h *HouseHandler) RegisterRoutes(g *echo.Group, guards Guards) {
	houses := g.Group("/houses")
	houses.GET("", h.ListHouses)
	houses.GET("/:slug", h.GetHouse)

	staff := []echo.MiddlewareFunc{guards.Auth, guards.Staff}
	houses.POST("", h.CreateHouse, staff...)
	houses.PUT("/:id", h.UpdateHouse, staff...)
	houses.DELETE("/:id", h.DeleteHouse, staff...)
	houses.GET("/:id/blackouts", h.ListBlackouts, staff...)
	houses.POST("/:id/blackouts", h.CreateBlackout, append(staff, guards.Idempotency)...)
	g.DELETE("/blackouts/:id", h.DeleteBlackout, staff...)
}

func (h *HouseHandler) ListHouses(c echo.Context) error {
	filter := repository.HouseFilter{Query: strings.TrimSpace(c.QueryParam("q"))}
	if s := c.QueryParam("services"); s != "" {
		for _, svc := range strings.Split(s, ",") {
			if svc = strings.TrimSpace(svc); svc != "" {
				filter.Services = append(filter.Services, svc)
			}
		}
	}
	if s := c.QueryParam("capacity"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "capacity must be a non-negative number")
		}
		filter.MinCapacity = n
	}

	houses, err := h.houses.ListHouses(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}

	resp := make([]dto.HouseResponse, len(houses))
	for i := range houses {
		resp[i] = dto.ToHouseResponse(&houses[i])
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *HouseHandler) GetHouse(c echo.Context) error {
	house, err := h.houses.GetHouseBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHouseResponse(house))
}

func (h *HouseHandler) CreateHouse(c echo.Context) error {
	var req dto.CreateHouseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	house, err := h.houses.CreateHouse(c.Request().Context(), service.HouseInput{
		Slug:     strings.ToLower(strings.TrimSpace(req.Slug)),
		Title:    req.Title,
		Summary:  req.Summary,
		Capacity: req.Capacity,
		Services: req.Services,
		Photos:   req.Photos,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToHouseResponse(house))
}

func (h *HouseHandler) UpdateHouse(c echo.Context) error {
	id, err := parseID(c, "id", "house")
	if err != nil {
		return err
	}
	var req dto.UpdateHouseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	house, err := h.houses.UpdateHouse(c.Request().Context(), id, service.HouseUpdate{
		Slug:     req.Slug,
		Title:    req.Title,
		Summary:  req.Summary,
		Capacity: req.Capacity,
		Services: req.Services,
		Photos:   req.Photos,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToHouseResponse(house))
}

func (h *HouseHandler) DeleteHouse(c echo.Context) error {
	id, err := parseID(c, "id", "house")
	if err != nil {
		return err
	}
	if err := h.houses.DeleteHouse(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *HouseHandler) ListBlackouts(c echo.Context) error {
	id, err := parseID(c, "id", "house")
	if err != nil {
		return err
	}

	blackouts, err := h.blackouts.ListBlackouts(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBlackoutResponses(blackouts))
}

func (h *HouseHandler) CreateBlackout(c echo.Context) error {
	id, err := parseID(c, "id", "house")
	if err != nil {
		return err
	}
	var req dto.CreateBlackoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	interval, err := availability.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	blackout, err := h.blackouts.CreateBlackout(c.Request().Context(), id, interval, req.Reason)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBlackoutResponse(blackout))
}

func (h *HouseHandler) DeleteBlackout(c echo.Context) error {
	id, err := parseID(c, "id", "blackout")
	if err != nil {
		return err
	}
	if err := h.blackouts.DeleteBlackout(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
