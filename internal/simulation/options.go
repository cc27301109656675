package simulation

import "github.com/okian/elorank/pkg/logger"

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithTop limits scoring to the first top ground-truth items. Use AllItems
// to score everything.
func WithTop(top int) Option {
	return func(e *Evaluator) {
		e.top = top
	}
}

// WithWorkers sets how many simulations run in parallel.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithSeed sets the base seed. Simulation i draws from seed+i.
func WithSeed(seed int64) Option {
	return func(e *Evaluator) {
		e.seed = seed
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}
