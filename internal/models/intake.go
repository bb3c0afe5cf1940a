package models

// IntakeRequest is a booking request received from an external channel
// (static-site form, issue tracker) over the message bus.
type IntakeRequest struct {
	ExternalRef string `json:"external_ref" validate:"required,max=200"`
	HouseSlug   string `json:"house_slug" validate:"required"`
	GuestEmail  string `json:"guest_email" validate:"required,email"`
	GuestName   string `json:"guest_name" validate:"max=120"`
	Arrival     string `json:"arrival" validate:"required"`
	Departure   string `json:"departure" validate:"required"`
	Guests      int    `json:"guests" validate:"required,gt=0"`
	Notes       string `json:"notes" validate:"max=2000"`
}
