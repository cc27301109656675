package rating

import "errors"

// ErrSameItem is returned when a comparison names one item on both sides.
var ErrSameItem = errors.New("winner and loser are the same item")
