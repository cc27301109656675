package model

import "errors"

// Sentinel kinds for table errors.
var (
	ErrUnknownItem   = errors.New("unknown item")
	ErrDuplicateItem = errors.New("duplicate item")
	ErrInvalidItem   = errors.New("invalid item")
)
