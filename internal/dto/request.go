package dto

// Dates are YYYY-MM-DD or RFC 3339 strings; they are parsed into half-open
// intervals by the handlers.

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     *string `json:"name" validate:"omitempty,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateBookingRequest struct {
	HouseID   uint    `json:"house_id" validate:"required"`
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	People    int     `json:"people" validate:"required,gt=0"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_REVIEW APPROVED REJECTED CHECKED_IN CHECKED_OUT CANCELLED"`
}

type ProposeDatesRequest struct {
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	Note      *string `json:"note" validate:"omitempty,max=2000"`
}

type CreateBlackoutRequest struct {
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	Reason    *string `json:"reason" validate:"omitempty,max=200"`
}

type CreateHouseRequest struct {
	Slug     string   `json:"slug" validate:"required,max=80"`
	Title    string   `json:"title" validate:"required,max=200"`
	Summary  *string  `json:"summary"`
	Capacity int      `json:"capacity" validate:"omitempty,gt=0"`
	Services []string `json:"services" validate:"omitempty,dive,required"`
	Photos   []string `json:"photos" validate:"omitempty,dive,url"`
}

type UpdateHouseRequest struct {
	Slug     *string  `json:"slug" validate:"omitempty,min=1,max=80"`
	Title    *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Summary  *string  `json:"summary"`
	Capacity *int     `json:"capacity" validate:"omitempty,gt=0"`
	Services []string `json:"services" validate:"omitempty,dive,required"`
	Photos   []string `json:"photos" validate:"omitempty,dive,url"`
}
