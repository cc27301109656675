package simulation

import "errors"

// ErrInvalidParams is returned for evaluation parameters that cannot run.
var ErrInvalidParams = errors.New("invalid simulation parameters")
