// Package selection picks the next pair of items to compare.
//
// The first item is drawn uniformly, optionally only among the least compared
// items. The second item is drawn either uniformly or weighted by inverse
// rating distance to the first item, so that comparisons concentrate where
// neighbouring ratings still need separating.
package selection

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/okian/elorank/internal/domain/model"
)

// Selector chooses pairs according to its heuristic flags. It is not safe
// for concurrent use because it owns a *rand.Rand.
type Selector struct {
	leastPicked   bool
	closerRatings bool
	rng           *rand.Rand
}

// New creates a Selector. Both heuristics are enabled by default.
func New(opts ...Option) *Selector {
	s := &Selector{
		leastPicked:   true,
		closerRatings: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not security sensitive
	}
	return s
}

// FavourLeastPicked reports whether the least-picked heuristic is enabled.
func (s *Selector) FavourLeastPicked() bool { return s.leastPicked }

// FavourCloserRatings reports whether the closer-ratings heuristic is enabled.
func (s *Selector) FavourCloserRatings() bool { return s.closerRatings }

// Select returns two distinct item names present in t.
func (s *Selector) Select(t *model.Table) (string, string, error) {
	return Select(t, s.leastPicked, s.closerRatings, s.rng)
}

// Select is the functional form of Selector.Select.
func Select(t *model.Table, favourLeastPicked, favourCloserRatings bool, rng *rand.Rand) (string, string, error) {
	if t.Len() < 2 {
		return "", "", fmt.Errorf("selection: table has %d items: %w", t.Len(), ErrInsufficientItems)
	}
	items := t.Items()

	pool := items
	if favourLeastPicked {
		pool = leastPicked(items)
	}
	first := pool[rng.Intn(len(pool))]

	var second string
	if favourCloserRatings {
		second = closest(items, first, rng)
	} else {
		second = uniformOther(items, first.Name, rng)
	}
	return first.Name, second, nil
}

// leastPicked returns the items whose comparison count equals the minimum.
func leastPicked(items []model.Item) []model.Item {
	least := math.MaxInt
	for _, it := range items {
		if it.Comparisons < least {
			least = it.Comparisons
		}
	}
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Comparisons == least {
			out = append(out, it)
		}
	}
	return out
}

// uniformOther draws from all items, redrawing while it lands on exclude.
// At least one other item exists, so every draw succeeds with probability
// of at least 1/2 and the loop ends.
func uniformOther(items []model.Item, exclude string, rng *rand.Rand) string {
	for {
		if name := items[rng.Intn(len(items))].Name; name != exclude {
			return name
		}
	}
}

// closest picks the second item relative to anchor. Exact rating ties win
// outright and are drawn uniformly; otherwise each candidate is weighted by
// 1/|rating difference|.
func closest(items []model.Item, anchor model.Item, rng *rand.Rand) string {
	others := make([]model.Item, 0, len(items)-1)
	var ties []string
	for _, it := range items {
		if it.Name == anchor.Name {
			continue
		}
		others = append(others, it)
		if it.Rating-anchor.Rating == 0 {
			ties = append(ties, it.Name)
		}
	}
	if len(ties) > 0 {
		return ties[rng.Intn(len(ties))]
	}

	weights := make([]float64, len(others))
	for i, it := range others {
		weights[i] = 1 / math.Abs(it.Rating-anchor.Rating)
	}
	return others[weightedIndex(weights, rng)].Name
}

// weightedIndex samples an index with probability proportional to its
// weight using a cumulative sum and binary search. Weights must be positive.
func weightedIndex(weights []float64, rng *rand.Rand) int {
	cumulative := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	target := rng.Float64() * total
	i := sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > target })
	if i == len(cumulative) {
		// rounding at the top end
		i = len(cumulative) - 1
	}
	return i
}
