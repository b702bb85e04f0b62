// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package seed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carmatch/carmatch/internal/catalog"
	"github.com/carmatch/carmatch/internal/logging"
)

// Seeder writes the demo catalog into a store at most once per process.
type Seeder struct {
	store  catalog.Store
	logger zerolog.Logger

	once sync.Once
	err  error
}

func NewSeeder(store catalog.Store) *Seeder {
	return &Seeder{
		store:  store,
		logger: logging.WithComponent("seed"),
	}
}

// Seed upserts the demo dataset. Repeated calls return the outcome of
// the first attempt.
func (s *Seeder) Seed(ctx context.Context) error {
	s.once.Do(func() {
		records := Dataset()
		keys, err := s.store.UpsertMany(ctx, records)
		if err != nil {
			s.logger.Error().Err(err).Msg("Seeding demo catalog failed")
			s.err = err
			return
		}
		s.logger.Info().
			Int("written", len(keys)).
			Int("submitted", len(records)).
			Msg("Seeded demo catalog")
	})
	return s.err
}
