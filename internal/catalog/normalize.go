// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package catalog implements the vehicle catalog: record validation and
// normalization, stable-key derivation, and the badger-backed document
// store with merge-write upserts and predicate queries.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyIdentifier is returned when an identifier normalizes to nothing.
var ErrEmptyIdentifier = errors.New("identifier is empty")

// NormalizeIdentifier turns a free-text field into a canonical key
// fragment: lowercase, punctuation stripped, whitespace collapsed to
// single hyphens, no leading or trailing hyphens.
//
// Existing hyphens, underscores, and slashes are treated as separators so
// "GR Sport", "GR-Sport", and "gr_sport" all normalize identically.
func NormalizeIdentifier(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrEmptyIdentifier
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			b.WriteRune(' ')
		default:
			// punctuation dropped
		}
	}

	fields := strings.Fields(b.String())
	if len(fields) == 0 {
		return "", ErrEmptyIdentifier
	}
	return strings.Join(fields, "-"), nil
}

// VehicleKey derives the deterministic catalog key for a vehicle tuple.
// The key uniquely determines (make, model, trim, year); re-submitting
// the same tuple updates rather than duplicates.
func VehicleKey(mk, model, trim string, year int) (string, error) {
	nm, err := NormalizeIdentifier(mk)
	if err != nil {
		return "", fmt.Errorf("make: %w", err)
	}
	nmo, err := NormalizeIdentifier(model)
	if err != nil {
		return "", fmt.Errorf("model: %w", err)
	}
	ntr, err := NormalizeIdentifier(trim)
	if err != nil {
		return "", fmt.Errorf("trim: %w", err)
	}
	return fmt.Sprintf("%s-%s-%s-%d", nm, nmo, ntr, year), nil
}
