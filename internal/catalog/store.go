// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package catalog

import (
	"context"
	"errors"

	"github.com/carmatch/carmatch/internal/models"
)

// Store failure kinds. All are fatal to the triggering operation and are
// surfaced with the underlying cause preserved; only per-record
// validation skips during ingestion are swallowed (and logged).
var (
	// ErrStoreUnavailable indicates the backing store is closed or
	// transiently unreachable.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrPermissionDenied indicates a write against a read-only store.
	ErrPermissionDenied = errors.New("catalog store permission denied")

	// ErrPreconditionFailed indicates a conflicting concurrent commit or
	// an unsupported filter combination.
	ErrPreconditionFailed = errors.New("catalog store precondition failed")
)

// Store is the abstract catalog persistence boundary: batched merge
// upserts keyed by the deterministic vehicle key, predicate queries, and
// full scans.
type Store interface {
	// UpsertMany validates and writes a batch of records. Records failing
	// validation are skipped and logged; the rest are committed in a
	// single atomic batch. Returns the keys written, in input order.
	UpsertMany(ctx context.Context, raws []models.RawVehicle) ([]string, error)

	// Query returns records matching every predicate in the filter,
	// sorted by price ascending then year ascending.
	Query(ctx context.Context, filter models.Filter) ([]models.Vehicle, error)

	// ListAll returns every record. Ordering matches an unconstrained
	// Query.
	ListAll(ctx context.Context) ([]models.Vehicle, error)

	// Count returns the number of records in the catalog.
	Count(ctx context.Context) (int, error)

	// Close releases the backing store.
	Close() error
}
