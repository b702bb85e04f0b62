// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package catalog

import (
	"fmt"
	"strings"

	"github.com/carmatch/carmatch/internal/models"
)

// FieldError reports a single invalid field in a submitted record. It is
// recoverable: the ingestion pipeline skips the offending record and
// continues with the remainder of the batch.
type FieldError struct {
	Field   string
	Value   interface{}
	Allowed []string
	Reason  string
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
	if len(e.Allowed) > 0 {
		msg += fmt.Sprintf(" (allowed: %s)", strings.Join(e.Allowed, ", "))
	}
	return msg
}

// Validator checks raw vehicle records against the domain schema and
// produces canonical records. Year bounds are domain-configured.
type Validator struct {
	YearMin int
	YearMax int
}

// NewValidator creates a Validator with the given year bounds.
func NewValidator(yearMin, yearMax int) *Validator {
	return &Validator{YearMin: yearMin, YearMax: yearMax}
}

// Validate checks each required field independently and returns a
// fully-populated canonical record, or a *FieldError naming the first
// offending field. Pure: no side effects; callers decide whether to skip
// or abort.
func (v *Validator) Validate(raw models.RawVehicle) (*models.Vehicle, error) {
	if strings.TrimSpace(raw.Make) == "" {
		return nil, &FieldError{Field: "make", Value: raw.Make, Reason: "must be a non-empty string"}
	}
	if strings.TrimSpace(raw.Model) == "" {
		return nil, &FieldError{Field: "model", Value: raw.Model, Reason: "must be a non-empty string"}
	}
	if strings.TrimSpace(raw.Trim) == "" {
		return nil, &FieldError{Field: "trim", Value: raw.Trim, Reason: "must be a non-empty string"}
	}

	bodyType := models.BodyType(strings.ToLower(strings.TrimSpace(raw.BodyType)))
	if !bodyType.Valid() {
		return nil, &FieldError{
			Field:   "body_type",
			Value:   raw.BodyType,
			Allowed: bodyTypeNames(),
			Reason:  "unsupported body type",
		}
	}

	fuelType := models.FuelType(strings.ToLower(strings.TrimSpace(raw.FuelType)))
	if !fuelType.Valid() {
		return nil, &FieldError{
			Field:   "fuel_type",
			Value:   raw.FuelType,
			Allowed: fuelTypeNames(),
			Reason:  "unsupported fuel type",
		}
	}

	if raw.Year == nil {
		return nil, &FieldError{Field: "year", Reason: "is required"}
	}
	if *raw.Year < v.YearMin || *raw.Year > v.YearMax {
		return nil, &FieldError{
			Field:  "year",
			Value:  *raw.Year,
			Reason: fmt.Sprintf("must be between %d and %d", v.YearMin, v.YearMax),
		}
	}

	if raw.Price == nil {
		return nil, &FieldError{Field: "price", Reason: "is required"}
	}
	if *raw.Price < 0 {
		return nil, &FieldError{Field: "price", Value: *raw.Price, Reason: "must be non-negative"}
	}

	if raw.AccelerationSeconds == nil {
		return nil, &FieldError{Field: "acceleration_seconds", Reason: "is required"}
	}
	if *raw.AccelerationSeconds <= 0 {
		return nil, &FieldError{
			Field:  "acceleration_seconds",
			Value:  *raw.AccelerationSeconds,
			Reason: "must be positive",
		}
	}

	if raw.Emissions == nil {
		return nil, &FieldError{Field: "emissions", Reason: "is required"}
	}
	if *raw.Emissions < 0 {
		return nil, &FieldError{Field: "emissions", Value: *raw.Emissions, Reason: "must be non-negative"}
	}

	if raw.SizeIndex == nil {
		return nil, &FieldError{Field: "size_index", Reason: "is required"}
	}
	if *raw.SizeIndex < 1 || *raw.SizeIndex > 3 {
		return nil, &FieldError{Field: "size_index", Value: *raw.SizeIndex, Reason: "must be between 1 and 3"}
	}

	key, err := VehicleKey(raw.Make, raw.Model, raw.Trim, *raw.Year)
	if err != nil {
		// Unreachable after the non-empty checks above, but keep the
		// field name in the error if normalization ever changes.
		return nil, &FieldError{Field: "key", Reason: err.Error()}
	}

	displayName := strings.TrimSpace(raw.DisplayName)
	if displayName == "" {
		displayName = fmt.Sprintf("%s %s", strings.TrimSpace(raw.Model), strings.TrimSpace(raw.Trim))
	}

	return &models.Vehicle{
		Key:                 key,
		Make:                strings.TrimSpace(raw.Make),
		Model:               strings.TrimSpace(raw.Model),
		Trim:                strings.TrimSpace(raw.Trim),
		Year:                *raw.Year,
		BodyType:            bodyType,
		FuelType:            fuelType,
		Price:               *raw.Price,
		AccelerationSeconds: *raw.AccelerationSeconds,
		Emissions:           *raw.Emissions,
		SizeIndex:           *raw.SizeIndex,
		DisplayName:         displayName,
		ImageURL:            strings.TrimSpace(raw.ImageURL),
	}, nil
}

func bodyTypeNames() []string {
	types := models.BodyTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

func fuelTypeNames() []string {
	types := models.FuelTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
