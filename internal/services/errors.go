package services

import "errors"

// Sentinel errors returned by the services. Handlers map these to HTTP
// statuses with errors.Is; everything else becomes a 500.
var (
	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailRegistered is returned when signing up with an email that is
	// already taken.
	ErrEmailRegistered = errors.New("email already registered")

	// ErrInvalidToken is returned when a bearer token is malformed, has a
	// bad signature, or has expired.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound is returned when a token subject no longer resolves
	// to a live user record.
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound is returned when a task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotTaskOwner is returned when a task exists but belongs to a
	// different user. Checked after existence.
	ErrNotTaskOwner = errors.New("not the task owner")

	// ErrInvalidStatus and ErrInvalidPriority are returned when a value is
	// outside its enumerated set.
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrTitleRequired is returned when creating a task without a title.
	ErrTitleRequired = errors.New("title is required")
)
