// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package recommend orchestrates catalog retrieval, utility scoring, and
// ranking into the preference-driven recommendation flow.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/carmatch/carmatch/internal/catalog"
	"github.com/carmatch/carmatch/internal/coeffs"
	"github.com/carmatch/carmatch/internal/logging"
	"github.com/carmatch/carmatch/internal/metrics"
	"github.com/carmatch/carmatch/internal/models"
	"github.com/carmatch/carmatch/internal/scoring"
)

// Seeder populates an empty catalog on demand. The engine invokes it
// when a request finds no records at all; implementations are expected
// to make repeated calls idempotent.
type Seeder interface {
	Seed(ctx context.Context) error
}

// Config controls result counts and the candidate year window.
type Config struct {
	// DefaultTopN is the result count when the caller does not specify one.
	DefaultTopN int

	// MaxTopN caps caller-requested result counts.
	MaxTopN int

	// YearMin and YearMax bound the candidate query's model years.
	YearMin int
	YearMax int

	// SeedOnEmpty enables one-time demo seeding when the catalog is empty.
	SeedOnEmpty bool
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		DefaultTopN: 3,
		MaxTopN:     20,
		YearMin:     2020,
		YearMax:     2026,
		SeedOnEmpty: true,
	}
}

// Validate checks the configuration for internal consistency.
func (c Config) Validate() error {
	if c.DefaultTopN < 1 {
		return fmt.Errorf("default_top_n must be at least 1, got %d", c.DefaultTopN)
	}
	if c.MaxTopN < c.DefaultTopN {
		return fmt.Errorf("max_top_n %d must be at least default_top_n %d", c.MaxTopN, c.DefaultTopN)
	}
	if c.YearMin > c.YearMax {
		return fmt.Errorf("year_min %d exceeds year_max %d", c.YearMin, c.YearMax)
	}
	return nil
}

// Engine produces ranked vehicle recommendations from questionnaire
// preferences. It is safe for concurrent use.
type Engine struct {
	config Config
	store  catalog.Store
	loader coeffs.Loader
	seeder Seeder
	logger zerolog.Logger
}

// NewEngine creates a recommendation engine. The seeder may be nil, in
// which case the empty-catalog fallback is skipped.
func NewEngine(cfg Config, store catalog.Store, loader coeffs.Loader, seeder Seeder) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Engine{
		config: cfg,
		store:  store,
		loader: loader,
		seeder: seeder,
		logger: logging.WithComponent("recommend"),
	}, nil
}

// FilterFromPreferences translates questionnaire answers into catalog
// query predicates. The year window always spans the configured model
// year bounds.
func (e *Engine) FilterFromPreferences(prefs models.Preferences) models.Filter {
	f := models.Filter{
		YearMin: e.config.YearMin,
		YearMax: e.config.YearMax,
	}
	if prefs.BodyType != nil {
		f.BodyType = *prefs.BodyType
	}
	if prefs.FuelType != nil {
		f.FuelType = *prefs.FuelType
	}
	if prefs.MaxPrice != nil && *prefs.MaxPrice > 0 {
		f.PriceMax = *prefs.MaxPrice
	}
	return f
}

// Recommend returns the top-N vehicles ranked by modeled utility for the
// given preferences. A topN of zero or less selects the configured
// default; values above the configured maximum are capped.
//
// Candidate retrieval degrades in stages rather than failing: a filtered
// query that comes back empty falls through to the full catalog, an
// empty catalog is seeded once with demo records, and filters that
// exclude everything are retried without the body and fuel predicates.
// Only coefficient loading and store errors abort the request.
func (e *Engine) Recommend(ctx context.Context, prefs models.Preferences, topN int) ([]models.ScoredVehicle, error) {
	start := time.Now()
	defer func() {
		metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	}()

	table, err := e.loader.Load(ctx)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("loading coefficients: %w", err)
	}

	if topN <= 0 {
		topN = e.config.DefaultTopN
	}
	if topN > e.config.MaxTopN {
		topN = e.config.MaxTopN
	}

	candidates, err := e.candidates(ctx, prefs)
	if err != nil {
		metrics.RecommendRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.RecommendRequests.WithLabelValues("empty").Inc()
		e.logger.Warn().Msg("No candidates available after all fallbacks")
		return []models.ScoredVehicle{}, nil
	}

	scored := make([]models.ScoredVehicle, 0, len(candidates))
	for _, v := range candidates {
		// The scorer counts its own failures; just make them visible here.
		s := scoring.Score(v, prefs, table)
		if s == scoring.SentinelScore {
			e.logger.Warn().Str("key", v.Key).Msg("Scoring failed, ranking vehicle last")
		}
		scored = append(scored, models.ScoredVehicle{Vehicle: v, Score: s})
	}

	// Stable so ties keep the store's price-then-year order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}

	metrics.RecommendRequests.WithLabelValues("ok").Inc()
	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(scored)).
		Msg("Recommendation request served")
	return scored, nil
}

// candidates runs the staged retrieval ladder and returns the vehicles
// to score.
func (e *Engine) candidates(ctx context.Context, prefs models.Preferences) ([]models.Vehicle, error) {
	filter := e.FilterFromPreferences(prefs)

	vehicles, err := e.store.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	if len(vehicles) > 0 {
		return vehicles, nil
	}

	metrics.RecommendFallbacks.WithLabelValues("list_all").Inc()
	all, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}

	if len(all) == 0 {
		if !e.config.SeedOnEmpty || e.seeder == nil {
			return nil, nil
		}
		metrics.RecommendFallbacks.WithLabelValues("seed").Inc()
		e.logger.Info().Msg("Catalog empty, seeding demo records")
		if err := e.seeder.Seed(ctx); err != nil {
			return nil, fmt.Errorf("seeding catalog: %w", err)
		}
		vehicles, err = e.store.Query(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("querying catalog after seed: %w", err)
		}
		if len(vehicles) > 0 {
			return vehicles, nil
		}
		all, err = e.store.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing catalog after seed: %w", err)
		}
		if len(all) == 0 {
			return nil, nil
		}
	}

	// The catalog has records but the filter excluded them all. Retry
	// without the categorical predicates, keeping price and year.
	if filter.BodyType != "" || filter.FuelType != "" {
		relaxed := filter
		relaxed.BodyType = ""
		relaxed.FuelType = ""
		metrics.RecommendFallbacks.WithLabelValues("relaxed").Inc()
		e.logger.Debug().
			Str("body_type", string(filter.BodyType)).
			Str("fuel_type", string(filter.FuelType)).
			Msg("Relaxing categorical filters")
		vehicles, err = e.store.Query(ctx, relaxed)
		if err != nil {
			return nil, fmt.Errorf("querying catalog with relaxed filter: %w", err)
		}
		if len(vehicles) > 0 {
			return vehicles, nil
		}
	}

	return nil, nil
}
