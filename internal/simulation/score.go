package simulation

import (
	"fmt"

	"github.com/okian/elorank/internal/domain/model"
	"github.com/okian/elorank/internal/session"
)

// AllItems scores every item of the ground truth.
const AllItems = -1

// Score measures how far observed is from truth. For each of the first top
// truth items (all of them when top is AllItems) the deviation is the
// absolute difference between its observed and true positions. It returns
// the mean and the largest deviation. A top larger than the list is clamped.
func Score(truth, observed []string, top int) (avg, largest float64, err error) {
	if top == 0 || top < AllItems {
		return 0, 0, fmt.Errorf("%w: top %d", ErrInvalidParams, top)
	}
	n := len(truth)
	if top != AllItems && top < n {
		n = top
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: empty ground truth", ErrInvalidParams)
	}

	pos := make(map[string]int, len(observed))
	for i, name := range observed {
		pos[name] = i
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j, ok := pos[truth[i]]
		if !ok {
			return 0, 0, fmt.Errorf("score: %q missing from observed ordering: %w", truth[i], model.ErrUnknownItem)
		}
		d := float64(j - i)
		if d < 0 {
			d = -d
		}
		total += d
		if d > largest {
			largest = d
		}
	}
	return total / float64(n), largest, nil
}

// Resolve decides a simulated comparison: whichever item ranks earlier in the
// ground truth wins. rank maps each name to its ground-truth position.
func Resolve(rank map[string]int, a, b string) (winner, loser string, err error) {
	ra, okA := rank[a]
	rb, okB := rank[b]
	if !okA || !okB || a == b {
		return "", "", fmt.Errorf("resolve %q vs %q: %w", a, b, session.ErrInvalidOutcome)
	}
	if ra < rb {
		return a, b, nil
	}
	return b, a, nil
}

func rankIndex(truth []string) (map[string]int, error) {
	rank := make(map[string]int, len(truth))
	for i, name := range truth {
		if _, dup := rank[name]; dup {
			return nil, fmt.Errorf("ground truth %q: %w", name, model.ErrDuplicateItem)
		}
		rank[name] = i
	}
	return rank, nil
}
