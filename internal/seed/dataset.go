// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package seed provides the built-in demo catalog and the one-time
// seeding path the recommendation engine uses when it finds the catalog
// empty.
package seed

import "github.com/carmatch/carmatch/internal/models"

func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

// Dataset returns the demo vehicle catalog. It spans every body type,
// both fuel types, and prices on both sides of $50,000 so the default
// questionnaire flows always have candidates.
func Dataset() []models.RawVehicle {
	return []models.RawVehicle{
		{Make: "Toyota", Model: "Corolla", Trim: "LE", Year: iptr(2025), BodyType: "compact", FuelType: "gasoline", Price: fptr(23500), AccelerationSeconds: fptr(8.2), Emissions: fptr(95), SizeIndex: iptr(1)},
		{Make: "Toyota", Model: "Corolla", Trim: "SE", Year: iptr(2025), BodyType: "compact", FuelType: "gasoline", Price: fptr(25900), AccelerationSeconds: fptr(7.9), Emissions: fptr(95), SizeIndex: iptr(1)},
		{Make: "Toyota", Model: "Prius", Trim: "XLE", Year: iptr(2025), BodyType: "compact", FuelType: "gasoline", Price: fptr(29400), AccelerationSeconds: fptr(7.2), Emissions: fptr(70), SizeIndex: iptr(1)},
		{Make: "Toyota", Model: "Camry", Trim: "XSE", Year: iptr(2025), BodyType: "compact", FuelType: "gasoline", Price: fptr(32400), AccelerationSeconds: fptr(7.0), Emissions: fptr(100), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "Crown", Trim: "Platinum", Year: iptr(2025), BodyType: "compact", FuelType: "gasoline", Price: fptr(41400), AccelerationSeconds: fptr(5.9), Emissions: fptr(105), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "Corolla EV", Trim: "SE", Year: iptr(2026), BodyType: "compact", FuelType: "electric", Price: fptr(33900), AccelerationSeconds: fptr(7.4), Emissions: fptr(0), SizeIndex: iptr(1)},
		{Make: "Toyota", Model: "bZ4X", Trim: "XLE", Year: iptr(2025), BodyType: "suv", FuelType: "electric", Price: fptr(43800), AccelerationSeconds: fptr(6.8), Emissions: fptr(0), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "bZ4X", Trim: "Limited", Year: iptr(2025), BodyType: "suv", FuelType: "electric", Price: fptr(48500), AccelerationSeconds: fptr(6.5), Emissions: fptr(0), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "RAV4", Trim: "XLE", Year: iptr(2025), BodyType: "suv", FuelType: "gasoline", Price: fptr(31900), AccelerationSeconds: fptr(8.0), Emissions: fptr(110), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "RAV4", Trim: "Adventure", Year: iptr(2024), BodyType: "suv", FuelType: "gasoline", Price: fptr(36500), AccelerationSeconds: fptr(7.8), Emissions: fptr(115), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "Highlander", Trim: "Platinum", Year: iptr(2025), BodyType: "suv", FuelType: "gasoline", Price: fptr(48900), AccelerationSeconds: fptr(7.1), Emissions: fptr(130), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "Grand Highlander", Trim: "Limited", Year: iptr(2026), BodyType: "suv", FuelType: "gasoline", Price: fptr(53200), AccelerationSeconds: fptr(7.4), Emissions: fptr(135), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "Tacoma", Trim: "TRD Sport", Year: iptr(2025), BodyType: "truck", FuelType: "gasoline", Price: fptr(42100), AccelerationSeconds: fptr(7.6), Emissions: fptr(140), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "Tacoma", Trim: "SR5", Year: iptr(2024), BodyType: "truck", FuelType: "gasoline", Price: fptr(37800), AccelerationSeconds: fptr(8.1), Emissions: fptr(140), SizeIndex: iptr(2)},
		{Make: "Toyota", Model: "Tundra", Trim: "Limited", Year: iptr(2025), BodyType: "truck", FuelType: "gasoline", Price: fptr(57300), AccelerationSeconds: fptr(6.9), Emissions: fptr(160), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "Tundra", Trim: "SR5", Year: iptr(2024), BodyType: "truck", FuelType: "gasoline", Price: fptr(49800), AccelerationSeconds: fptr(7.3), Emissions: fptr(160), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "Tundra EV", Trim: "TRD", Year: iptr(2026), BodyType: "truck", FuelType: "electric", Price: fptr(62800), AccelerationSeconds: fptr(4.9), Emissions: fptr(0), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "Sienna", Trim: "XLE", Year: iptr(2025), BodyType: "van", FuelType: "gasoline", Price: fptr(42600), AccelerationSeconds: fptr(7.7), Emissions: fptr(105), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "Sienna", Trim: "Platinum", Year: iptr(2026), BodyType: "van", FuelType: "gasoline", Price: fptr(51700), AccelerationSeconds: fptr(7.5), Emissions: fptr(105), SizeIndex: iptr(3)},
		{Make: "Toyota", Model: "bZ5X", Trim: "Limited", Year: iptr(2026), BodyType: "van", FuelType: "electric", Price: fptr(58900), AccelerationSeconds: fptr(6.2), Emissions: fptr(0), SizeIndex: iptr(3)},
	}
}
