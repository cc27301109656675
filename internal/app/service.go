// Package service wires configuration, file-backed stores and an outcome
// source into a live comparison session.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/elorank/internal/adapters/repository"
	"github.com/okian/elorank/internal/config"
	"github.com/okian/elorank/internal/domain/selection"
	"github.com/okian/elorank/internal/session"
	"github.com/okian/elorank/pkg/logger"
	"github.com/okian/elorank/pkg/metrics"
)

// ErrNotStarted is returned when Run is called before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the stores and the session of one live run.
type Service struct {
	mu sync.RWMutex

	cfg    *config.Config
	judge  session.OutcomeSource
	logger logger.Logger

	items    *repository.ItemList
	ratings  *repository.TableStore
	metadata *repository.MetadataStore
	report   *repository.Report
	session  *session.Session

	started bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOutcomeSource sets the judge that decides each comparison.
func WithOutcomeSource(src session.OutcomeSource) Option {
	return func(s *Service) {
		s.judge = src
	}
}

// New constructs a Service. A nil cfg falls back to the defaults.
func New(cfg *config.Config, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.New(context.Background())
	}
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the data files, loads the item list and rating table and
// builds the session.
func (s *Service) Start(ctx context.Context) error {
	const op = "service.start"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.judge == nil {
		return fmt.Errorf("%s: outcome source is required", op)
	}

	s.logger.Info(ctx, "starting ranking service...", logger.String("data_dir", s.cfg.DataDir))

	storeOpts := []repository.Option{repository.WithLogger(s.logger.Named("repository"))}
	s.items = repository.NewItemList(s.cfg.Path(s.cfg.ItemsFile), storeOpts...)
	s.ratings = repository.NewTableStore(s.cfg.Path(s.cfg.RatingsFile), storeOpts...)
	s.metadata = repository.NewMetadataStore(s.cfg.Path(s.cfg.MetadataFile), storeOpts...)

	if err := s.metadata.Init(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.ratings.Init(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	names, err := s.items.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	table, err := s.ratings.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	added, err := table.EnsureItems(names)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(added) > 0 {
		s.logger.Info(ctx, "new items added to the rating table", logger.Int("count", len(added)))
		if err := s.ratings.Save(ctx, table); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	selOpts := []selection.Option{
		selection.WithFavourLeastPicked(s.cfg.FavourLeastPicked),
		selection.WithFavourCloserRatings(s.cfg.FavourCloserRatings),
	}
	if s.cfg.Seed != 0 {
		selOpts = append(selOpts, selection.WithSeed(s.cfg.Seed))
	}

	sessOpts := []session.Option{
		session.WithSelector(selection.New(selOpts...)),
		session.WithOutcomeSource(s.judge),
		session.WithTableStore(s.ratings),
		session.WithCounter(s.metadata),
		session.WithLogger(s.logger.Named("session")),
	}
	if s.cfg.ReportFile != "" {
		s.report = repository.NewReport(s.cfg.Path(s.cfg.ReportFile), s.cfg.ReportSize, storeOpts...)
		sessOpts = append(sessOpts, session.WithReport(s.report))
	}

	s.session, err = session.New(table, sessOpts...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("items", table.Len()),
		logger.Bool("favourLeastPicked", s.cfg.FavourLeastPicked),
		logger.Bool("favourCloserRatings", s.cfg.FavourCloserRatings),
		logger.String("sessionID", s.session.ID()),
	)
	return nil
}

// Run drives the session until the judge quits or ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.mu.RLock()
	sess := s.session
	started := s.started
	s.mu.RUnlock()

	if !started {
		return ErrNotStarted
	}
	return sess.Run(ctx)
}

// Stop ends the run and exports metrics when a metrics file is configured.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping ranking service...")

	var err error
	if s.cfg.MetricsFile != "" {
		if err = metrics.WriteTextfile(s.cfg.Path(s.cfg.MetricsFile)); err != nil {
			s.logger.Error(ctx, "failed to export metrics", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "ranking service stopped")
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"ratingsFile": s.cfg.Path(s.cfg.RatingsFile),
	}
	if s.session != nil {
		for k, v := range s.session.Stats() {
			stats[k] = v
		}
		stats["minComparisons"] = s.session.Table().MinComparisons()
	}
	return stats
}
