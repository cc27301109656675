// Package rating applies Elo updates to a rating table after a comparison.
package rating

import (
	"fmt"
	"math"

	"github.com/okian/elorank/internal/domain/model"
)

// Elo constants.
const (
	K     = 32.0  // maximum adjustment per comparison
	Scale = 400.0 // a gap of Scale points means 10:1 expected odds
)

// Result carries the post-update records and the applied deltas.
type Result struct {
	Winner      model.Item
	Loser       model.Item
	WinnerDelta float64
	LoserDelta  float64
}

// Expected returns the expected score of a player rated ra against rb.
func Expected(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/Scale))
}

// Next returns the rating after a game with the given expectation and actual
// score (1 for a win, 0 for a loss).
func Next(old, expected, score float64) float64 {
	return old + K*(score-expected)
}

// Update applies one resolved comparison to t in place. Both expectations use
// the pre-update ratings; both comparison counts grow by one and nothing else
// in the table changes.
func Update(t *model.Table, winner, loser string) (Result, error) {
	const op = "rating.update"
	if winner == loser {
		return Result{}, fmt.Errorf("%s: %q vs itself: %w", op, winner, ErrSameItem)
	}
	w, err := t.Get(winner)
	if err != nil {
		return Result{}, fmt.Errorf("%s: winner %w", op, err)
	}
	l, err := t.Get(loser)
	if err != nil {
		return Result{}, fmt.Errorf("%s: loser %w", op, err)
	}

	winnerExp := Expected(w.Rating, l.Rating)
	loserExp := Expected(l.Rating, w.Rating)
	winnerNew := Next(w.Rating, winnerExp, 1)
	loserNew := Next(l.Rating, loserExp, 0)

	res := Result{
		WinnerDelta: winnerNew - w.Rating,
		LoserDelta:  loserNew - l.Rating,
	}
	if res.Winner, err = t.Apply(winner, winnerNew); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	if res.Loser, err = t.Apply(loser, loserNew); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
