package selection

import "errors"

// ErrInsufficientItems is returned when a table holds fewer than two items.
var ErrInsufficientItems = errors.New("at least two items are required")
