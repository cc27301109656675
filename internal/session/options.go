package session

import "github.com/okian/elorank/pkg/logger"

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithSelector sets the pair selector.
func WithSelector(sel Selector) Option {
	return func(s *Session) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithOutcomeSource sets the judge.
func WithOutcomeSource(src OutcomeSource) Option {
	return func(s *Session) {
		if src != nil {
			s.outcomes = src
		}
	}
}

// WithTableStore sets where the table is saved after each round.
func WithTableStore(store TableStore) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCounter sets the cross-session comparison counter.
func WithCounter(c Counter) Option {
	return func(s *Session) {
		if c != nil {
			s.counter = c
		}
	}
}

// WithReport sets the report sink.
func WithReport(r ReportSink) Option {
	return func(s *Session) {
		if r != nil {
			s.report = r
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
