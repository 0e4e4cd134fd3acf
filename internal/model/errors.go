package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrEmailNotFound  = errors.New("no account for email")

	// Admin errors
	ErrAdminNotFound = errors.New("admin not found")

	// Content errors
	ErrSubjectNotFound = errors.New("subject not found")
	ErrWordNotFound    = errors.New("word not found")
	ErrNoWords         = errors.New("subject has no words")

	// Leaderboard errors
	ErrInvalidWindow = errors.New("invalid leaderboard window")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Store errors
	ErrDuplicate       = errors.New("record already exists")
	ErrDataUnavailable = errors.New("data unavailable")
)
