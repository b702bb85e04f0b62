// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/carmatch/carmatch/internal/metrics"
	"github.com/carmatch/carmatch/internal/models"
)

// Key prefixes for badger storage.
const (
	vehicleKeyPrefix = "vehicle:"
)

// DefaultChunkSize bounds existence-check queries per chunk. The backing
// store limits batched key lookups; keep in sync with catalog.chunk_size.
const DefaultChunkSize = 10

// Options configures a BadgerStore.
type Options struct {
	// Dir is the badger database directory. Ignored when InMemory is set.
	Dir string

	// InMemory runs badger without disk persistence. Used by tests.
	InMemory bool

	// ChunkSize bounds existence-check queries during batched upserts.
	// Defaults to DefaultChunkSize.
	ChunkSize int

	// YearMin and YearMax bound acceptable model years.
	YearMin int
	YearMax int

	// Logger receives per-record skip warnings and store diagnostics.
	Logger zerolog.Logger

	// Clock overrides the timestamp source. Defaults to time.Now.
	Clock func() time.Time
}

// BadgerStore is the badger-backed catalog store. Records are JSON
// documents under the vehicle: prefix; batch upserts commit in a single
// transaction so partial application is never observable.
type BadgerStore struct {
	db        *badger.DB
	validator *Validator
	chunkSize int
	logger    zerolog.Logger
	now       func() time.Time

	// writeMu serializes upsert batches. Badger would detect the
	// conflict anyway; serializing keeps per-key timestamps monotonic.
	writeMu sync.Mutex
}

// Open opens (creating if necessary) a badger-backed catalog store.
func Open(opts Options) (*BadgerStore, error) {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	badgerOpts := badger.DefaultOptions(opts.Dir).
		WithInMemory(opts.InMemory).
		WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}

	s := &BadgerStore{
		db:        db,
		validator: NewValidator(opts.YearMin, opts.YearMax),
		chunkSize: opts.ChunkSize,
		logger:    opts.Logger.With().Str("component", "catalog").Logger(),
		now:       opts.Clock,
	}

	// Prime the size gauge from whatever the store already holds.
	if _, err := s.Count(context.Background()); err != nil {
		s.logger.Warn().Err(err).Msg("initial catalog count failed")
	}
	return s, nil
}

// DB exposes the underlying badger handle for sibling stores (the
// answers log) and the GC service.
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

// Close releases the badger database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// pendingWrite pairs a validated record with merge hints from the raw
// submission.
type pendingWrite struct {
	vehicle        models.Vehicle
	hadDisplayName bool
	hadImageURL    bool
}

// UpsertMany validates the batch, skips and logs invalid records, then
// commits the remainder atomically with merge semantics: unspecified
// optional fields are preserved, CreatedAt is set exactly once, and
// UpdatedAt refreshes monotonically on every write to the same key.
func (s *BadgerStore) UpsertMany(ctx context.Context, raws []models.RawVehicle) (keys []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("upsert", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Validate and skip. Duplicate keys inside one batch collapse to the
	// last occurrence.
	order := make([]string, 0, len(raws))
	pending := make(map[string]pendingWrite, len(raws))
	for i, raw := range raws {
		rec, err := s.validator.Validate(raw)
		if err != nil {
			metrics.RecordsSkipped.Inc()
			s.logger.Warn().
				Int("index", i).
				Str("make", raw.Make).
				Str("model", raw.Model).
				Err(err).
				Msg("record skipped")
			continue
		}
		if _, seen := pending[rec.Key]; !seen {
			order = append(order, rec.Key)
		}
		pending[rec.Key] = pendingWrite{
			vehicle:        *rec,
			hadDisplayName: strings.TrimSpace(raw.DisplayName) != "",
			hadImageURL:    strings.TrimSpace(raw.ImageURL) != "",
		}
	}
	if len(pending) == 0 {
		return []string{}, nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Existence check in bounded chunks, prefetching current documents
	// for the merge.
	existing := make(map[string]models.Vehicle, len(order))
	for _, chunk := range chunkKeys(order, s.chunkSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := s.db.View(func(txn *badger.Txn) error {
			for _, key := range chunk {
				item, err := txn.Get([]byte(vehicleKeyPrefix + key))
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				var cur models.Vehicle
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &cur)
				}); err != nil {
					return fmt.Errorf("decode %s: %w", key, err)
				}
				existing[key] = cur
			}
			return nil
		})
		if err != nil {
			return nil, mapBadgerErr("existence check", err)
		}
	}

	// Single atomic batched write.
	err = s.db.Update(func(txn *badger.Txn) error {
		for _, key := range order {
			pw := pending[key]
			merged := s.merge(existing, pw)

			data, err := json.Marshal(&merged)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", key, err)
			}
			if err := txn.Set([]byte(vehicleKeyPrefix+key), data); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerErr("batch write", err)
	}

	created := 0
	for _, key := range order {
		if _, exists := existing[key]; !exists {
			created++
		}
	}
	metrics.CatalogSize.Add(float64(created))

	s.logger.Debug().Int("written", len(order)).Int("submitted", len(raws)).Msg("batch committed")
	return order, nil
}

// merge overlays the incoming record on the stored one. Required fields
// always come from the incoming record; optional fields the caller left
// out keep their stored values.
func (s *BadgerStore) merge(existing map[string]models.Vehicle, pw pendingWrite) models.Vehicle {
	merged := pw.vehicle
	now := s.now().UTC()

	cur, exists := existing[merged.Key]
	if !exists {
		merged.CreatedAt = now
		merged.UpdatedAt = now
		return merged
	}

	merged.CreatedAt = cur.CreatedAt
	if !pw.hadImageURL && cur.ImageURL != "" {
		merged.ImageURL = cur.ImageURL
	}
	if !pw.hadDisplayName && cur.DisplayName != "" {
		merged.DisplayName = cur.DisplayName
	}

	// UpdatedAt is monotonic per key even under clock skew.
	if !now.After(cur.UpdatedAt) {
		now = cur.UpdatedAt.Add(time.Millisecond)
	}
	merged.UpdatedAt = now
	return merged
}

// chunkKeys partitions keys into chunks of at most size elements.
func chunkKeys(keys []string, size int) [][]string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]string, 0, (len(keys)+size-1)/size)
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}

// Query scans the catalog and applies every filter predicate in memory,
// returning matches sorted by price ascending, ties broken by year
// ascending. The backing store supports only key lookups and prefix
// scans, so the scan-then-filter strategy is the native one here; a
// store with composite indexes may push predicates down instead, as long
// as the logical result is identical.
func (s *BadgerStore) Query(ctx context.Context, filter models.Filter) (vehicles []models.Vehicle, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("query", start, err) }()

	if err := validateExtraFilters(filter.Extra); err != nil {
		return nil, err
	}

	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, v := range all {
		if matchesFilter(v, filter) {
			matched = append(matched, v)
		}
	}

	sortVehicles(matched)
	return matched, nil
}

// ListAll returns every record, ordered the same way as an
// unconstrained Query.
func (s *BadgerStore) ListAll(ctx context.Context) (vehicles []models.Vehicle, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("list_all", start, err) }()

	all, err := s.scan(ctx)
	if err != nil {
		return nil, err
	}
	sortVehicles(all)
	return all, nil
}

// Count returns the number of catalog records.
func (s *BadgerStore) Count(ctx context.Context) (count int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStoreOp("count", start, err) }()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(vehicleKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, mapBadgerErr("count", err)
	}
	metrics.CatalogSize.Set(float64(count))
	return count, nil
}

// scan reads every vehicle document under the vehicle: prefix.
func (s *BadgerStore) scan(ctx context.Context) ([]models.Vehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var vehicles []models.Vehicle
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(vehicleKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var v models.Vehicle
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			vehicles = append(vehicles, v)
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerErr("scan", err)
	}
	return vehicles, nil
}

// extraFilterFields are the equality fields accepted in Filter.Extra.
var extraFilterFields = map[string]func(models.Vehicle) string{
	"make":  func(v models.Vehicle) string { return v.Make },
	"model": func(v models.Vehicle) string { return v.Model },
	"trim":  func(v models.Vehicle) string { return v.Trim },
}

// validateExtraFilters rejects unknown extension filter fields.
func validateExtraFilters(extra map[string]string) error {
	for field := range extra {
		if _, ok := extraFilterFields[field]; !ok {
			return fmt.Errorf("%w: unsupported filter field %q", ErrPreconditionFailed, field)
		}
	}
	return nil
}

// matchesFilter evaluates the filter conjunction against one record.
func matchesFilter(v models.Vehicle, f models.Filter) bool {
	if f.YearMin != 0 && v.Year < f.YearMin {
		return false
	}
	if f.YearMax != 0 && v.Year > f.YearMax {
		return false
	}
	if f.BodyType != "" && v.BodyType != f.BodyType {
		return false
	}
	if f.FuelType != "" && v.FuelType != f.FuelType {
		return false
	}
	if f.PriceMax != 0 && v.Price > f.PriceMax {
		return false
	}
	for field, want := range f.Extra {
		get, ok := extraFilterFields[field]
		if !ok {
			return false
		}
		if !strings.EqualFold(get(v), want) {
			return false
		}
	}
	return true
}

// sortVehicles orders by price ascending, then year ascending, then key
// for full determinism.
func sortVehicles(vehicles []models.Vehicle) {
	sort.SliceStable(vehicles, func(i, j int) bool {
		if vehicles[i].Price != vehicles[j].Price {
			return vehicles[i].Price < vehicles[j].Price
		}
		if vehicles[i].Year != vehicles[j].Year {
			return vehicles[i].Year < vehicles[j].Year
		}
		return vehicles[i].Key < vehicles[j].Key
	})
}

// mapBadgerErr classifies badger failures into the store error taxonomy,
// preserving the cause in the message.
func mapBadgerErr(op string, err error) error {
	switch {
	case errors.Is(err, badger.ErrDBClosed), errors.Is(err, badger.ErrBlockedWrites):
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	case errors.Is(err, badger.ErrReadOnlyTxn):
		return fmt.Errorf("%s: %w: %v", op, ErrPermissionDenied, err)
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%s: %w: %v", op, ErrPreconditionFailed, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
}
