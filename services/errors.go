package services

import "errors"

// Classified service errors. Controllers dispatch on these with errors.Is to
// pick the HTTP status; anything else maps to a generic failure.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskInactive         = errors.New("task is not active")
	ErrTaskAlreadyCompleted = errors.New("task already completed today")
)
