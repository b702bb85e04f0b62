// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package coeffs loads the linear-model coefficient table consumed by the
// utility scorer. The resource is a two-column CSV (feature,beta) with a
// header row; structural problems fail loudly, malformed rows are skipped
// with a warning.
package coeffs

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Coefficient load failures. All are fatal to a recommendation request:
// no partial scoring happens without a usable table.
var (
	// ErrResourceNotFound indicates the coefficient resource is absent.
	ErrResourceNotFound = errors.New("coefficient resource not found")

	// ErrEmptyResource indicates the resource has no content.
	ErrEmptyResource = errors.New("coefficient resource is empty")

	// ErrMalformedResource indicates the resource lacks a header plus at
	// least one data row.
	ErrMalformedResource = errors.New("coefficient resource is malformed")

	// ErrNoValidCoefficients indicates every data row was rejected.
	ErrNoValidCoefficients = errors.New("no valid coefficients in resource")
)

// IsLoadError reports whether err is one of the coefficient load
// failure kinds.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrResourceNotFound) ||
		errors.Is(err, ErrEmptyResource) ||
		errors.Is(err, ErrMalformedResource) ||
		errors.Is(err, ErrNoValidCoefficients)
}

// Table maps feature names to trained weights. Missing features score as
// weight zero; absence is not an error at scoring time.
type Table map[string]float64

// Weight returns the coefficient for feature, or zero when absent.
func (t Table) Weight(feature string) float64 {
	return t[feature]
}

// Loader produces a coefficient table.
type Loader interface {
	Load(ctx context.Context) (Table, error)
}

// FileLoader reads the coefficient CSV from a file path. Idempotent and
// safe to call repeatedly; callers wanting reuse wrap it in a
// CachedLoader.
type FileLoader struct {
	path   string
	logger zerolog.Logger
}

// NewFileLoader creates a loader for the given CSV path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewFileLoader(path string, logger zerolog.Logger) *FileLoader {
	return &FileLoader{
		path:   path,
		logger: logger.With().Str("component", "coeffs").Logger(),
	}
}

// Load parses the resource into a Table.
func (l *FileLoader) Load(ctx context.Context) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, l.path)
		}
		return nil, fmt.Errorf("open coefficient resource %s: %w", l.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	return l.parse(f)
}

// parse reads header + rows, skipping malformed rows with a warning.
func (l *FileLoader) parse(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row arity is validated per-row below
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResource, err)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyResource
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header and at least one data row, got %d line(s)",
			ErrMalformedResource, len(rows))
	}

	table := make(Table, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after header

		if len(row) < 2 {
			l.logger.Warn().Int("line", line).Msg("row missing field, skipped")
			continue
		}

		feature := strings.TrimSpace(row[0])
		if feature == "" {
			l.logger.Warn().Int("line", line).Msg("row missing feature name, skipped")
			continue
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			l.logger.Warn().
				Int("line", line).
				Str("feature", feature).
				Str("beta", row[1]).
				Msg("non-numeric weight, skipped")
			continue
		}

		table[feature] = weight
	}

	if len(table) == 0 {
		return nil, ErrNoValidCoefficients
	}

	l.logger.Debug().Int("features", len(table)).Msg("coefficients loaded")
	return table, nil
}
