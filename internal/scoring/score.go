// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package scoring evaluates the trained linear utility model for one
// vehicle against one preference set. The feature encoding must match
// the training pipeline exactly: one-hot categories against fixed base
// levels, numeric features pre-scaled to the training data's scale, and
// demographic interaction terms.
package scoring

import (
	"math"

	"github.com/carmatch/carmatch/internal/coeffs"
	"github.com/carmatch/carmatch/internal/metrics"
	"github.com/carmatch/carmatch/internal/models"
)

// SentinelScore is returned when scoring a single vehicle fails
// internally. It sorts the vehicle last instead of aborting the ranking.
const SentinelScore = -999

// One-hot base categories. The base level contributes no coefficient
// term; these must match the levels the model was trained against.
const (
	baseBodyType = models.BodyVan
	baseFuelType = models.FuelGasoline
)

// collegeAttr is the college-education attribute of the
// college_x_fuel_electric interaction. The questionnaire does not
// collect it, so the term is always zero; the constant stays in the
// formula so the encoding mirrors the trained feature set.
const collegeAttr = 0.0

// Speed-value transform constants. The model was trained on a speed-like
// scale, so the 0-60 time is inverted: 6s or faster maps to 140, and
// each additional second costs 13.75 points down to a floor of 85.
const (
	speedCeiling   = 140.0
	speedFloor     = 85.0
	speedBaseAccel = 6.0
	speedSlope     = 13.75
)

// SpeedValue converts an acceleration time into the model's speed scale.
func SpeedValue(accelerationSeconds float64) float64 {
	v := speedCeiling - (accelerationSeconds-speedBaseAccel)*speedSlope
	return math.Min(math.Max(v, speedFloor), speedCeiling)
}

// Score computes the utility of one vehicle for one preference set using
// the loaded coefficient table. Deterministic and pure; a missing
// coefficient contributes zero. Any internal failure yields
// SentinelScore rather than an error.
func Score(v models.Vehicle, prefs models.Preferences, table coeffs.Table) (score float64) {
	defer func() {
		if recover() != nil {
			metrics.ScoringFailures.Inc()
			score = SentinelScore
		}
	}()

	// One-hot categorical contributions against the fixed bases.
	if v.BodyType != baseBodyType {
		score += table.Weight("type_" + string(v.BodyType))
	}
	if v.FuelType != baseFuelType {
		score += table.Weight("fuel_" + string(v.FuelType))
	}

	// Linear numeric contributions, pre-scaled to the training scale.
	priceScaled := v.Price / 10000
	score += table.Weight("price") * priceScaled
	score += table.Weight("speed") * (SpeedValue(v.AccelerationSeconds) / 100)
	score += table.Weight("pollution") * (v.Emissions / 100)
	score += table.Weight("size") * float64(v.SizeIndex)

	// Demographic interaction terms.
	household := 0.0
	if prefs.LargeHousehold {
		household = 1.0
	}
	commute := 0.0
	if prefs.LongCommute {
		commute = 1.0
	}
	electric := 0.0
	if v.FuelType == models.FuelElectric {
		electric = 1.0
	}

	score += household * float64(v.SizeIndex) * table.Weight("hsg2_x_size")
	score += commute * priceScaled * table.Weight("coml5_x_price")
	score += collegeAttr * electric * table.Weight("college_x_fuel_electric")

	if math.IsNaN(score) || math.IsInf(score, 0) {
		metrics.ScoringFailures.Inc()
		return SentinelScore
	}
	return score
}
