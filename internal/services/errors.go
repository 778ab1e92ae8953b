package services

import "errors"

// Sentinel errors returned by the services. Handlers translate them into
// HTTP status codes; anything else is an internal error.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyVoted       = errors.New("already voted on this item")
	ErrAlreadySigned      = errors.New("petition already signed")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrPetitionClosed     = errors.New("petition is closed")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
