// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package catalog

import (
	"errors"
	"testing"

	"github.com/carmatch/carmatch/internal/models"
)

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func validRaw() models.RawVehicle {
	return models.RawVehicle{
		Make:                "Toyota",
		Model:               "Corolla",
		Trim:                "LE",
		Year:                iptr(2025),
		BodyType:            "compact",
		FuelType:            "gasoline",
		Price:               fptr(23500),
		AccelerationSeconds: fptr(8.2),
		Emissions:           fptr(95),
		SizeIndex:           iptr(1),
	}
}

func TestValidateAcceptsCanonicalRecord(t *testing.T) {
	t.Parallel()

	v := NewValidator(2020, 2026)
	got, err := v.Validate(validRaw())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.Key != "toyota-corolla-le-2025" {
		t.Errorf("Key = %q, want toyota-corolla-le-2025", got.Key)
	}
	if got.DisplayName != "Corolla LE" {
		t.Errorf("DisplayName = %q, want defaulted %q", got.DisplayName, "Corolla LE")
	}
	if got.BodyType != models.BodyCompact || got.FuelType != models.FuelGasoline {
		t.Errorf("enums = %s/%s, want compact/gasoline", got.BodyType, got.FuelType)
	}
}

func TestValidateCaseFoldsEnums(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.BodyType = " SUV "
	raw.FuelType = "Electric"

	v := NewValidator(2020, 2026)
	got, err := v.Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.BodyType != models.BodySUV {
		t.Errorf("BodyType = %s, want suv", got.BodyType)
	}
	if got.FuelType != models.FuelElectric {
		t.Errorf("FuelType = %s, want electric", got.FuelType)
	}
}

func TestValidateKeepsExplicitDisplayName(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.DisplayName = "2025 Corolla LE Sedan"

	v := NewValidator(2020, 2026)
	got, err := v.Validate(raw)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got.DisplayName != "2025 Corolla LE Sedan" {
		t.Errorf("DisplayName = %q, want explicit value kept", got.DisplayName)
	}
}

func TestValidateFieldFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.RawVehicle)
		field  string
	}{
		{name: "empty make", mutate: func(r *models.RawVehicle) { r.Make = "  " }, field: "make"},
		{name: "empty model", mutate: func(r *models.RawVehicle) { r.Model = "" }, field: "model"},
		{name: "empty trim", mutate: func(r *models.RawVehicle) { r.Trim = "" }, field: "trim"},
		{name: "unknown body type", mutate: func(r *models.RawVehicle) { r.BodyType = "sedan" }, field: "body_type"},
		{name: "unknown fuel type", mutate: func(r *models.RawVehicle) { r.FuelType = "diesel" }, field: "fuel_type"},
		{name: "missing year", mutate: func(r *models.RawVehicle) { r.Year = nil }, field: "year"},
		{name: "year below bound", mutate: func(r *models.RawVehicle) { r.Year = iptr(2019) }, field: "year"},
		{name: "year above bound", mutate: func(r *models.RawVehicle) { r.Year = iptr(2027) }, field: "year"},
		{name: "missing price", mutate: func(r *models.RawVehicle) { r.Price = nil }, field: "price"},
		{name: "negative price", mutate: func(r *models.RawVehicle) { r.Price = fptr(-1) }, field: "price"},
		{name: "missing acceleration", mutate: func(r *models.RawVehicle) { r.AccelerationSeconds = nil }, field: "acceleration_seconds"},
		{name: "zero acceleration", mutate: func(r *models.RawVehicle) { r.AccelerationSeconds = fptr(0) }, field: "acceleration_seconds"},
		{name: "missing emissions", mutate: func(r *models.RawVehicle) { r.Emissions = nil }, field: "emissions"},
		{name: "negative emissions", mutate: func(r *models.RawVehicle) { r.Emissions = fptr(-5) }, field: "emissions"},
		{name: "missing size index", mutate: func(r *models.RawVehicle) { r.SizeIndex = nil }, field: "size_index"},
		{name: "size index out of range", mutate: func(r *models.RawVehicle) { r.SizeIndex = iptr(4) }, field: "size_index"},
	}

	v := NewValidator(2020, 2026)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw := validRaw()
			tt.mutate(&raw)

			_, err := v.Validate(raw)
			var fieldErr *FieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("Validate() error = %v, want *FieldError", err)
			}
			if fieldErr.Field != tt.field {
				t.Errorf("failed field = %s, want %s", fieldErr.Field, tt.field)
			}
		})
	}
}

func TestValidateZeroEmissionsAndPriceAllowed(t *testing.T) {
	t.Parallel()

	raw := validRaw()
	raw.Price = fptr(0)
	raw.Emissions = fptr(0)

	v := NewValidator(2020, 2026)
	if _, err := v.Validate(raw); err != nil {
		t.Errorf("Validate() with zero price and emissions = %v, want nil", err)
	}
}
