package repositories

import "errors"

// ErrNotFound is returned when a record does not exist.
// Implementations wrap it so callers can check with errors.Is.
var ErrNotFound = errors.New("record not found")
