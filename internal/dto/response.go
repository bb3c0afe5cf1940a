package dto

import (
	"time"

	"github.com/cittafutura/booking-service/internal/availability"
	"github.com/cittafutura/booking-service/internal/models"
)

type BookingResponse struct {
	ID        uint                 `json:"id"`
	HouseID   uint                 `json:"house_id"`
	UserID    uint                 `json:"user_id"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	People    int                  `json:"people"`
	Notes     *string              `json:"notes,omitempty"`
	Status    models.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type BlackoutResponse struct {
	ID        uint      `json:"id"`
	HouseID   uint      `json:"house_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type HouseResponse struct {
	ID        uint               `json:"id"`
	Slug      string             `json:"slug"`
	Title     string             `json:"title"`
	Summary   *string            `json:"summary,omitempty"`
	Capacity  int                `json:"capacity"`
	Services  []string           `json:"services"`
	Photos    []string           `json:"photos"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Bookings  []BookingResponse  `json:"bookings,omitempty"`
	Blackouts []BlackoutResponse `json:"blackouts,omitempty"`
}

type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	Name      *string     `json:"name,omitempty"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type StatusEventResponse struct {
	ID         uint                 `json:"id"`
	FromStatus models.BookingStatus `json:"from_status"`
	ToStatus   models.BookingStatus `json:"to_status"`
	ChangedBy  uint                 `json:"changed_by"`
	Note       *string              `json:"note,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

type CalendarResponse struct {
	HouseID uint                   `json:"house_id"`
	Events  []models.CalendarEvent `json:"events"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type ConflictDetail struct {
	Kind availability.Kind `json:"kind"`
	ID   uint              `json:"id"`
}

// ConflictResponse tells the operator which record blocks the dates.
type ConflictResponse struct {
	Message  string         `json:"message"`
	Conflict ConflictDetail `json:"conflict"`
}

func ToConflictResponse(e *availability.ConflictError) ConflictResponse {
	return ConflictResponse{
		Message:  e.Error(),
		Conflict: ConflictDetail{Kind: e.Kind, ID: e.ID},
	}
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		HouseID:   b.HouseID,
		UserID:    b.UserID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		People:    b.People,
		Notes:     b.Notes,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToBlackoutResponse(b *models.Blackout) BlackoutResponse {
	return BlackoutResponse{
		ID:        b.ID,
		HouseID:   b.HouseID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

func ToBlackoutResponses(blackouts []models.Blackout) []BlackoutResponse {
	resp := make([]BlackoutResponse, len(blackouts))
	for i := range blackouts {
		resp[i] = ToBlackoutResponse(&blackouts[i])
	}
	return resp
}

func ToHouseResponse(h *models.House) HouseResponse {
	resp := HouseResponse{
		ID:        h.ID,
		Slug:      h.Slug,
		Title:     h.Title,
		Summary:   h.Summary,
		Capacity:  h.Capacity,
		Services:  nonNil(h.Services),
		Photos:    nonNil(h.Photos),
		CreatedAt: h.CreatedAt,
		UpdatedAt: h.UpdatedAt,
	}
	if len(h.Bookings) > 0 {
		resp.Bookings = ToBookingResponses(h.Bookings)
	}
	if len(h.Blackouts) > 0 {
		resp.Blackouts = ToBlackoutResponses(h.Blackouts)
	}
	return resp
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func ToStatusEventResponse(e *models.BookingStatusEvent) StatusEventResponse {
	return StatusEventResponse{
		ID:         e.ID,
		FromStatus: e.FromStatus,
		ToStatus:   e.ToStatus,
		ChangedBy:  e.ChangedBy,
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
