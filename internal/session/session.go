// Package session runs live comparison rounds: pick a pair, ask the judge,
// apply the Elo update and persist the result.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/elorank/internal/domain/model"
	"github.com/okian/elorank/internal/domain/rating"
	"github.com/okian/elorank/internal/domain/selection"
	"github.com/okian/elorank/pkg/logger"
	"github.com/okian/elorank/pkg/metrics"
)

const component = "session"

// Session owns a rating table for the duration of a run.
type Session struct {
	id       string
	table    *model.Table
	selector Selector
	outcomes OutcomeSource
	store    TableStore
	counter  Counter
	report   ReportSink
	logger   logger.Logger

	rounds int
	total  int
}

// New creates a session over table. The outcome source is required; the
// selector defaults to both heuristics on and persistence is optional.
func New(table *model.Table, opts ...Option) (*Session, error) {
	s := &Session{
		id:    uuid.NewString(),
		table: table,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named(component)
	}
	s.logger = s.logger.With(logger.String("session_id", s.id))

	if table == nil {
		return nil, errors.New("session: nil table")
	}
	if s.outcomes == nil {
		return nil, errors.New("session: outcome source is required")
	}
	if s.selector == nil {
		s.selector = selection.New()
	}
	metrics.UpdateTableSize(table.Len())
	return s, nil
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// Table returns the table the session is mutating.
func (s *Session) Table() *model.Table { return s.table }

// Rounds returns the number of rounds completed by this session.
func (s *Session) Rounds() int { return s.rounds }

// Round runs one comparison. It returns false when the judge asked to stop.
func (s *Session) Round(ctx context.Context) (bool, error) {
	start := time.Now()
	first, second, err := s.selector.Select(s.table)
	if err != nil {
		metrics.RecordError(component, "select")
		return false, fmt.Errorf("session: select: %w", err)
	}
	metrics.RecordSelectionLatency(float64(time.Since(start).Microseconds()) / 1000)

	choice, err := s.outcomes.Choose(ctx, first, second)
	if err != nil {
		metrics.RecordError(component, "outcome")
		return false, fmt.Errorf("session: outcome: %w", err)
	}
	if choice == ChoiceQuit {
		s.logger.Info(ctx, "judge ended the session", logger.Int("rounds", s.rounds))
		return false, nil
	}
	winner, loser, err := choice.Resolve(first, second)
	if err != nil {
		metrics.RecordInvalidOutcome()
		return false, fmt.Errorf("session: %w", err)
	}

	res, err := rating.Update(s.table, winner, loser)
	if err != nil {
		metrics.RecordError(component, "update")
		return false, fmt.Errorf("session: %w", err)
	}
	if err := s.persist(ctx); err != nil {
		return false, err
	}

	s.rounds++
	metrics.RecordComparison(res.WinnerDelta)
	s.logger.Debug(ctx, "round complete",
		logger.String("winner", winner),
		logger.String("loser", loser),
		logger.Float64("winner_rating", res.Winner.Rating),
		logger.Float64("loser_rating", res.Loser.Rating),
		logger.Int("round", s.rounds))
	return true, nil
}

func (s *Session) persist(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.Save(ctx, s.table); err != nil {
			metrics.RecordError(component, "save")
			return fmt.Errorf("session: save table: %w", err)
		}
	}
	if s.counter != nil {
		total, err := s.counter.Increment(ctx)
		if err != nil {
			metrics.RecordError(component, "metadata")
			return fmt.Errorf("session: metadata: %w", err)
		}
		s.total = total
		metrics.UpdateTotalComparisons(total)
	}
	if s.report != nil {
		if err := s.report.Write(ctx, s.table); err != nil {
			metrics.RecordError(component, "report")
			return fmt.Errorf("session: report: %w", err)
		}
	}
	return nil
}

// Run repeats rounds until the judge quits, ctx is cancelled or a round fails.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info(ctx, "session started", logger.Int("items", s.table.Len()))
	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info(ctx, "session cancelled", logger.Int("rounds", s.rounds))
			return err
		}
		more, err := s.Round(ctx)
		if err != nil {
			s.logger.Error(ctx, "round failed", logger.Error(err), logger.Int("rounds", s.rounds))
			return err
		}
		if !more {
			break
		}
	}
	s.logger.Info(ctx, "session finished", logger.Int("rounds", s.rounds), logger.Int("total_comparisons", s.total))
	return nil
}

// Stats reports session progress.
func (s *Session) Stats() map[string]any {
	return map[string]any{
		"sessionID":        s.id,
		"rounds":           s.rounds,
		"items":            s.table.Len(),
		"totalComparisons": s.total,
	}
}
