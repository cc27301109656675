// Package simulation measures how quickly pair-selection heuristics converge
// on a known ordering, by driving rating updates with a judge that always
// follows the ground truth.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/elorank/internal/domain/model"
	"github.com/okian/elorank/internal/domain/rating"
	"github.com/okian/elorank/internal/domain/selection"
	"github.com/okian/elorank/pkg/logger"
	"github.com/okian/elorank/pkg/metrics"
)

const component = "simulation"

// Params describes one heuristic configuration and its budget.
type Params struct {
	FavourLeastPicked   bool
	FavourCloserRatings bool
	ComparisonsPerSim   int
	Simulations         int
}

// Label names the heuristic configuration for logs and metrics.
func (p Params) Label() string {
	switch {
	case p.FavourLeastPicked && p.FavourCloserRatings:
		return "least_picked+closer_ratings"
	case p.FavourLeastPicked:
		return "least_picked"
	case p.FavourCloserRatings:
		return "closer_ratings"
	default:
		return "uniform"
	}
}

func (p Params) validate() error {
	switch {
	case p.ComparisonsPerSim < 0:
		return fmt.Errorf("%w: comparisons per simulation %d", ErrInvalidParams, p.ComparisonsPerSim)
	case p.Simulations < 1:
		return fmt.Errorf("%w: simulations %d", ErrInvalidParams, p.Simulations)
	}
	return nil
}

// Result holds one entry per simulation, in simulation order.
type Result struct {
	AverageDeviations []float64
	MaxDeviations     []float64
}

// Evaluator runs Monte Carlo simulations.
type Evaluator struct {
	top     int
	workers int
	seed    int64
	logger  logger.Logger
}

// New creates an Evaluator that scores all items on a single worker.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		top:     AllItems,
		workers: 1,
		seed:    time.Now().UnixNano(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named(component)
	}
	return e
}

// Evaluate runs p.Simulations independent simulations over truth. Each
// simulation owns its table and random source, so results depend only on the
// seed and never on the number of workers. Cancellation is observed between
// simulations.
func (e *Evaluator) Evaluate(ctx context.Context, truth []string, p Params) (Result, error) {
	if err := p.validate(); err != nil {
		metrics.RecordError(component, "invalid_params")
		return Result{}, err
	}
	if e.top == 0 || e.top < AllItems {
		metrics.RecordError(component, "invalid_params")
		return Result{}, fmt.Errorf("%w: top %d", ErrInvalidParams, e.top)
	}
	rank, err := rankIndex(truth)
	if err != nil {
		return Result{}, err
	}
	if len(truth) < 2 {
		return Result{}, fmt.Errorf("simulation: %d items: %w", len(truth), selection.ErrInsufficientItems)
	}

	runID := uuid.NewString()
	log := e.logger.With(logger.String("run_id", runID), logger.String("config", p.Label()))
	workers := min(e.workers, p.Simulations)
	metrics.UpdateSimulationWorkers(workers)
	log.Info(ctx, "evaluation started",
		logger.Int("items", len(truth)),
		logger.Int("comparisons", p.ComparisonsPerSim),
		logger.Int("simulations", p.Simulations),
		logger.Int("workers", workers))
	started := time.Now()

	res := Result{
		AverageDeviations: make([]float64, p.Simulations),
		MaxDeviations:     make([]float64, p.Simulations),
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	indices := make(chan int, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				simStart := time.Now()
				avg, largest, err := e.simulate(truth, rank, p, e.seed+int64(i))
				if err != nil {
					errOnce.Do(func() {
						firstErr = fmt.Errorf("simulation %d: %w", i, err)
						cancel()
					})
					metrics.RecordError(component, "simulate")
					continue
				}
				res.AverageDeviations[i] = avg
				res.MaxDeviations[i] = largest
				metrics.RecordSimulation(p.Label(), p.ComparisonsPerSim, avg, largest,
					float64(time.Since(simStart).Microseconds())/1000)
			}
		}()
	}

feed:
	for i := 0; i < p.Simulations; i++ {
		select {
		case <-runCtx.Done():
			break feed
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	if firstErr != nil {
		log.Error(ctx, "evaluation failed", logger.Error(firstErr))
		return Result{}, firstErr
	}
	if err := ctx.Err(); err != nil {
		log.Warn(ctx, "evaluation cancelled", logger.Error(err))
		return Result{}, err
	}
	log.Info(ctx, "evaluation finished", logger.Duration("elapsed", time.Since(started)))
	return res, nil
}

// simulate runs one simulation and scores its final ordering.
func (e *Evaluator) simulate(truth []string, rank map[string]int, p Params, seed int64) (float64, float64, error) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible simulations

	// Ties in rating fall back to insertion order; shuffling keeps the
	// ground truth from leaking into the observed ordering through them.
	names := make([]string, len(truth))
	copy(names, truth)
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	t, err := model.NewTable(names)
	if err != nil {
		return 0, 0, err
	}
	for c := 0; c < p.ComparisonsPerSim; c++ {
		a, b, err := selection.Select(t, p.FavourLeastPicked, p.FavourCloserRatings, rng)
		if err != nil {
			return 0, 0, err
		}
		winner, loser, err := Resolve(rank, a, b)
		if err != nil {
			return 0, 0, err
		}
		if _, err := rating.Update(t, winner, loser); err != nil {
			return 0, 0, err
		}
	}
	return Score(truth, t.RankedNames(), e.top)
}
