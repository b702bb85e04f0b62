// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package models

import "testing"

func TestBodyTypeValid(t *testing.T) {
	t.Parallel()

	for _, b := range BodyTypes() {
		if !b.Valid() {
			t.Errorf("BodyType(%q).Valid() = false, want true", b)
		}
	}

	for _, b := range []BodyType{"", "sedan", "SUV", "convertible"} {
		if b.Valid() {
			t.Errorf("BodyType(%q).Valid() = true, want false", b)
		}
	}
}

func TestFuelTypeValid(t *testing.T) {
	t.Parallel()

	for _, f := range FuelTypes() {
		if !f.Valid() {
			t.Errorf("FuelType(%q).Valid() = false, want true", f)
		}
	}

	for _, f := range []FuelType{"", "diesel", "Electric", "hybrid"} {
		if f.Valid() {
			t.Errorf("FuelType(%q).Valid() = true, want false", f)
		}
	}
}

func TestFilterIsZero(t *testing.T) {
	t.Parallel()

	if !(Filter{}).IsZero() {
		t.Error("empty Filter.IsZero() = false, want true")
	}

	tests := []struct {
		name   string
		filter Filter
	}{
		{name: "year min", filter: Filter{YearMin: 2020}},
		{name: "year max", filter: Filter{YearMax: 2026}},
		{name: "body type", filter: Filter{BodyType: BodySUV}},
		{name: "fuel type", filter: Filter{FuelType: FuelElectric}},
		{name: "price max", filter: Filter{PriceMax: 50000}},
		{name: "extra", filter: Filter{Extra: map[string]string{"model": "bZ4X"}}},
	}
	for _, tt := range tests {
		if tt.filter.IsZero() {
			t.Errorf("%s: IsZero() = true, want false", tt.name)
		}
	}
}
