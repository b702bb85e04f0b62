// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/carmatch/carmatch/internal/catalog"
	"github.com/carmatch/carmatch/internal/coeffs"
	"github.com/carmatch/carmatch/internal/logging"
	"github.com/carmatch/carmatch/internal/models"
	"github.com/carmatch/carmatch/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent
// log injection. Newlines, carriage returns, and other control bytes
// could otherwise forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response in the standard envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondSuccess sends a success envelope with query timing metadata.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// validateRequest validates a struct using go-playground/validator and
// converts failures to the VALIDATION_ERROR shape.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}
	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// maxBodyBytes bounds request bodies to guard against oversized payloads.
const maxBodyBytes = 1 << 20

// decodeJSONBody decodes the request body into dst, rejecting unknown
// payload shapes with a client error.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return false
	}
	return true
}

// storeErrorStatus maps catalog store failure kinds to HTTP statuses.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrPreconditionFailed):
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

// coeffsErrorMessage maps coefficient loader failure kinds to safe,
// user-facing messages.
func coeffsErrorMessage(err error) string {
	switch {
	case errors.Is(err, coeffs.ErrResourceNotFound):
		return "Scoring coefficients resource not found"
	case errors.Is(err, coeffs.ErrEmptyResource):
		return "Scoring coefficients resource is empty"
	case errors.Is(err, coeffs.ErrMalformedResource):
		return "Scoring coefficients resource is malformed"
	case errors.Is(err, coeffs.ErrNoValidCoefficients):
		return "Scoring coefficients resource contains no valid rows"
	default:
		return "Scoring coefficients failed to load"
	}
}

// getIntParam extracts an integer query parameter. An absent parameter
// yields the default; a malformed one is a client error.
func getIntParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// getFloatParam extracts a float query parameter. An absent parameter
// yields the default; a malformed one is a client error.
func getFloatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}
