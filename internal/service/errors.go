package service

import "errors"

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrHouseNotFound      = errors.New("house not found")
	ErrBlackoutNotFound   = errors.New("blackout not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyApproved    = errors.New("booking is already approved")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrInvalidPeople      = errors.New("people must be a positive number")
	ErrOverCapacity       = errors.New("party size exceeds house capacity")
	ErrSlugTaken          = errors.New("a house with this slug already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
