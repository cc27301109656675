package session

import (
	"context"
	"fmt"

	"github.com/okian/elorank/internal/domain/model"
)

// Choice is a judge's answer for a presented pair.
type Choice int

// Choices.
const (
	ChoiceInvalid Choice = iota
	ChoiceFirst
	ChoiceSecond
	ChoiceQuit
)

func (c Choice) String() string {
	switch c {
	case ChoiceFirst:
		return "first"
	case ChoiceSecond:
		return "second"
	case ChoiceQuit:
		return "quit"
	default:
		return "invalid"
	}
}

// Resolve turns a choice for (first, second) into winner and loser.
func (c Choice) Resolve(first, second string) (winner, loser string, err error) {
	switch c {
	case ChoiceFirst:
		return first, second, nil
	case ChoiceSecond:
		return second, first, nil
	default:
		return "", "", fmt.Errorf("choice %s for %q vs %q: %w", c, first, second, ErrInvalidOutcome)
	}
}

// OutcomeSource asks a judge which of two items is stronger.
type OutcomeSource interface {
	Choose(ctx context.Context, first, second string) (Choice, error)
}

// Selector picks the next pair to present.
type Selector interface {
	Select(t *model.Table) (string, string, error)
}

// TableStore persists the rating table.
type TableStore interface {
	Load(ctx context.Context) (*model.Table, error)
	Save(ctx context.Context, t *model.Table) error
}

// Counter records completed rounds across sessions.
type Counter interface {
	Increment(ctx context.Context) (int, error)
}

// ReportSink receives the table after every round.
type ReportSink interface {
	Write(ctx context.Context, t *model.Table) error
}
