package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrCorruptRecord = errors.New("corrupt record")
	ErrNoItems       = errors.New("item list is empty")
)
