// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package models

// Preferences holds a user's questionnaire answers. Every field is
// optional; the recommendation engine behaves correctly when all are
// absent. Pointer fields distinguish "not answered" from a zero answer.
type Preferences struct {
	// BodyType is the desired body category, if any.
	BodyType *BodyType `json:"body_type,omitempty"`

	// FuelType is the desired fuel category, if any.
	FuelType *FuelType `json:"fuel_type,omitempty"`

	// MaxPrice is the price ceiling in dollars, if any.
	MaxPrice *float64 `json:"max_price,omitempty"`

	// SpeedPreference is the desired 0-60 time in seconds, if any.
	SpeedPreference *float64 `json:"speed_preference,omitempty"`

	// SizePreference is the desired size index (1-3), if any.
	SizePreference *int `json:"size_preference,omitempty"`

	// LargeHousehold indicates a household of more than two people.
	LargeHousehold bool `json:"large_household,omitempty"`

	// LongCommute indicates a one-way commute over five miles.
	LongCommute bool `json:"long_commute,omitempty"`
}

// AnswerRecord is a persisted questionnaire submission from the
// save-answers endpoint.
type AnswerRecord struct {
	ID        string            `json:"id"`
	Answers   map[string]string `json:"answers"`
	SavedAt   string            `json:"saved_at"`
	UserAgent string            `json:"user_agent,omitempty"`
}
