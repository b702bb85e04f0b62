// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package models defines the shared data types exchanged between the
// catalog, recommendation engine, and HTTP API layers.
package models

import (
	"time"
)

// BodyType enumerates the supported vehicle body categories.
type BodyType string

// Supported body types. Van is the one-hot base category in the scoring
// model and contributes no coefficient term.
const (
	BodyCompact BodyType = "compact"
	BodySUV     BodyType = "suv"
	BodyTruck   BodyType = "truck"
	BodyVan     BodyType = "van"
)

// Valid reports whether b is one of the supported body types.
func (b BodyType) Valid() bool {
	switch b {
	case BodyCompact, BodySUV, BodyTruck, BodyVan:
		return true
	}
	return false
}

// BodyTypes returns all supported body type values.
func BodyTypes() []BodyType {
	return []BodyType{BodyCompact, BodySUV, BodyTruck, BodyVan}
}

// FuelType enumerates the supported fuel categories. Gasoline is the
// one-hot base category in the scoring model.
type FuelType string

// Supported fuel types.
const (
	FuelGasoline FuelType = "gasoline"
	FuelElectric FuelType = "electric"
)

// Valid reports whether f is one of the supported fuel types.
func (f FuelType) Valid() bool {
	return f == FuelGasoline || f == FuelElectric
}

// FuelTypes returns all supported fuel type values.
func FuelTypes() []FuelType {
	return []FuelType{FuelGasoline, FuelElectric}
}

// RawVehicle is an unvalidated vehicle record as submitted by callers.
// Numeric fields are pointers so that absent and zero values can be
// distinguished during validation and merge-upserts.
type RawVehicle struct {
	Make                string   `json:"make"`
	Model               string   `json:"model"`
	Trim                string   `json:"trim"`
	Year                *int     `json:"year,omitempty"`
	BodyType            string   `json:"body_type"`
	FuelType            string   `json:"fuel_type"`
	Price               *float64 `json:"price,omitempty"`
	AccelerationSeconds *float64 `json:"acceleration_seconds,omitempty"`
	Emissions           *float64 `json:"emissions,omitempty"`
	SizeIndex           *int     `json:"size_index,omitempty"`
	DisplayName         string   `json:"display_name,omitempty"`
	ImageURL            string   `json:"image_url,omitempty"`
}

// Vehicle is a validated, canonical catalog record. Key is derived from
// the normalized (make, model, trim, year) tuple and uniquely identifies
// the record; re-submitting the same tuple updates rather than duplicates.
type Vehicle struct {
	Key                 string    `json:"key"`
	Make                string    `json:"make"`
	Model               string    `json:"model"`
	Trim                string    `json:"trim"`
	Year                int       `json:"year"`
	BodyType            BodyType  `json:"body_type"`
	FuelType            FuelType  `json:"fuel_type"`
	Price               float64   `json:"price"`
	AccelerationSeconds float64   `json:"acceleration_seconds"`
	Emissions           float64   `json:"emissions"`
	SizeIndex           int       `json:"size_index"`
	DisplayName         string    `json:"display_name"`
	ImageURL            string    `json:"image_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Filter is a conjunction of catalog query predicates. Zero values mean
// the predicate is not applied. Extra holds additional equality filters
// on named fields as a bounded extension point; unknown field names are
// rejected by the store.
type Filter struct {
	YearMin  int               `json:"year_min,omitempty"`
	YearMax  int               `json:"year_max,omitempty"`
	BodyType BodyType          `json:"body_type,omitempty"`
	FuelType FuelType          `json:"fuel_type,omitempty"`
	PriceMax float64           `json:"price_max,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f Filter) IsZero() bool {
	return f.YearMin == 0 && f.YearMax == 0 && f.BodyType == "" &&
		f.FuelType == "" && f.PriceMax == 0 && len(f.Extra) == 0
}

// ScoredVehicle pairs a catalog record with its computed utility score.
// Produced fresh per recommendation request, never persisted.
type ScoredVehicle struct {
	Vehicle Vehicle `json:"vehicle"`
	Score   float64 `json:"score"`
}
