package selection

import "math/rand"

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithFavourLeastPicked restricts the first item to the least compared items.
func WithFavourLeastPicked(enabled bool) Option {
	return func(s *Selector) {
		s.leastPicked = enabled
	}
}

// WithFavourCloserRatings weights the second item by inverse rating distance.
func WithFavourCloserRatings(enabled bool) Option {
	return func(s *Selector) {
		s.closerRatings = enabled
	}
}

// WithSeed makes selection deterministic.
func WithSeed(seed int64) Option {
	return func(s *Selector) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible draws, not security sensitive
	}
}

// WithRand supplies the random source directly.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}
