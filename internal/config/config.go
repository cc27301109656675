// Package config defines process configuration and how it is loaded.
//
// Conventions:
//   - New(ctx) returns a Config holding every default.
//   - Load(ctx) layers a YAML file and environment variables over New.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the directory that relative file paths resolve against.
	DataDir string `koanf:"data_dir"`

	// ItemsFile lists one item name per line.
	ItemsFile string `koanf:"items_file"`
	// RatingsFile holds the persisted rating table.
	RatingsFile string `koanf:"ratings_file"`
	// MetadataFile holds the cross-session comparison counter.
	MetadataFile string `koanf:"metadata_file"`
	// ReportFile receives the top-N report after every round.
	ReportFile string `koanf:"report_file"`
	// ReportSize is N in the top-N report.
	ReportSize int `koanf:"report_size"`

	// FavourLeastPicked and FavourCloserRatings toggle the pair heuristics.
	FavourLeastPicked   bool `koanf:"favour_least_picked"`
	FavourCloserRatings bool `koanf:"favour_closer_ratings"`

	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`

	// MetricsFile, when set, receives a Prometheus textfile on exit.
	MetricsFile string `koanf:"metrics_file"`

	// Monte Carlo harness parameters.
	SimItems       int `koanf:"sim_items"`
	SimComparisons int `koanf:"sim_comparisons"`
	SimSimulations int `koanf:"sim_simulations"`
	SimTop         int `koanf:"sim_top"`
	SimWorkers     int `koanf:"sim_workers"`
}

// New creates a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		DataDir:             ".",
		ItemsFile:           "item_list.txt",
		RatingsFile:         "item_ratings.csv",
		MetadataFile:        "metadata.yaml",
		ReportFile:          "top10.txt",
		ReportSize:          10,
		FavourLeastPicked:   true,
		FavourCloserRatings: true,
		SimItems:            20,
		SimComparisons:      100,
		SimSimulations:      100,
		SimTop:              10,
		SimWorkers:          runtime.NumCPU(),
	}
}

// Path resolves name against DataDir unless it is already absolute.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch {
	case c.ItemsFile == "":
		return fmt.Errorf("%w: items_file must not be empty", ErrInvalidConfig)
	case c.RatingsFile == "":
		return fmt.Errorf("%w: ratings_file must not be empty", ErrInvalidConfig)
	case c.MetadataFile == "":
		return fmt.Errorf("%w: metadata_file must not be empty", ErrInvalidConfig)
	case c.ReportSize < 1:
		return fmt.Errorf("%w: report_size must be positive", ErrInvalidConfig)
	case c.SimItems < 2:
		return fmt.Errorf("%w: sim_items must be at least 2", ErrInvalidConfig)
	case c.SimComparisons < 0:
		return fmt.Errorf("%w: sim_comparisons must not be negative", ErrInvalidConfig)
	case c.SimSimulations < 1:
		return fmt.Errorf("%w: sim_simulations must be positive", ErrInvalidConfig)
	case c.SimTop == 0 || c.SimTop < -1:
		return fmt.Errorf("%w: sim_top must be -1 or positive", ErrInvalidConfig)
	case c.SimWorkers < 1:
		return fmt.Errorf("%w: sim_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
