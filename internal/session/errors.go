package session

import "errors"

// ErrInvalidOutcome is returned when an outcome names neither presented item.
var ErrInvalidOutcome = errors.New("invalid outcome")
