// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package services

import (
	"context"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/carmatch/carmatch/internal/logging"
)

// BadgerGCService periodically runs badger value-log garbage collection
// on the catalog store's database.
type BadgerGCService struct {
	db       *badger.DB
	interval time.Duration
	ratio    float64
	name     string
}

// NewBadgerGCService creates the GC service. interval defaults to five
// minutes, ratio to badger's recommended 0.5.
func NewBadgerGCService(db *badger.DB, interval time.Duration) *BadgerGCService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &BadgerGCService{
		db:       db,
		interval: interval,
		ratio:    0.5,
		name:     "badger-gc",
	}
}

// Serve implements suture.Service.
func (s *BadgerGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger := logging.WithComponent("badger-gc")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Loop until badger reports nothing left to rewrite.
			for {
				err := s.db.RunValueLogGC(s.ratio)
				if errors.Is(err, badger.ErrNoRewrite) {
					break
				}
				if err != nil {
					logger.Warn().Err(err).Msg("Value log GC failed")
					break
				}
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *BadgerGCService) String() string {
	return s.name
}
