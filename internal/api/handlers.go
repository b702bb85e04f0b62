// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/carmatch/carmatch/internal/catalog"
	"github.com/carmatch/carmatch/internal/chat"
	"github.com/carmatch/carmatch/internal/coeffs"
	"github.com/carmatch/carmatch/internal/logging"
	"github.com/carmatch/carmatch/internal/models"
	"github.com/carmatch/carmatch/internal/recommend"
)

// Handler carries the wired application components the HTTP endpoints
// dispatch into.
type Handler struct {
	store   catalog.Store
	engine  *recommend.Engine
	answers *catalog.AnswersLog
	chat    *chat.Client
	loader  coeffs.Loader
	started time.Time
}

// NewHandler creates the endpoint handler set. The answers log and chat
// client may be nil when those features are not configured.
func NewHandler(store catalog.Store, engine *recommend.Engine, answers *catalog.AnswersLog, chatClient *chat.Client, loader coeffs.Loader) *Handler {
	return &Handler{
		store:   store,
		engine:  engine,
		answers: answers,
		chat:    chatClient,
		loader:  loader,
		started: time.Now(),
	}
}

// upsertVehiclesRequest is the POST /api/v1/vehicles payload.
type upsertVehiclesRequest struct {
	Vehicles []models.RawVehicle `json:"vehicles" validate:"required,min=1,max=500"`
}

// UpsertVehicles ingests a batch of vehicle records. Records failing
// validation are skipped; the remainder is committed atomically.
func (h *Handler) UpsertVehicles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req upsertVehiclesRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	keys, err := h.store.UpsertMany(r.Context(), req.Vehicles)
	if err != nil {
		respondError(w, storeErrorStatus(err), "STORE_ERROR", "Catalog write failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"keys":      keys,
		"written":   len(keys),
		"submitted": len(req.Vehicles),
		"skipped":   len(req.Vehicles) - len(keys),
	}, start)
}

// ListVehicles returns catalog records matching the query parameters,
// sorted by price then year ascending. Without parameters it returns
// the full catalog.
func (h *Handler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var filter models.Filter
	var paramErr error
	if filter.YearMin, paramErr = getIntParam(r, "year_min", 0); paramErr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", paramErr.Error(), nil)
		return
	}
	if filter.YearMax, paramErr = getIntParam(r, "year_max", 0); paramErr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", paramErr.Error(), nil)
		return
	}
	if filter.PriceMax, paramErr = getFloatParam(r, "price_max", 0); paramErr != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", paramErr.Error(), nil)
		return
	}
	if v := r.URL.Query().Get("body_type"); v != "" {
		bt := models.BodyType(strings.ToLower(v))
		if !bt.Valid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "body_type must be a supported body type", nil)
			return
		}
		filter.BodyType = bt
	}
	if v := r.URL.Query().Get("fuel_type"); v != "" {
		ft := models.FuelType(strings.ToLower(v))
		if !ft.Valid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "fuel_type must be a supported fuel type", nil)
			return
		}
		filter.FuelType = ft
	}
	for _, name := range []string{"make", "model", "trim"} {
		if v := r.URL.Query().Get(name); v != "" {
			if filter.Extra == nil {
				filter.Extra = make(map[string]string, 3)
			}
			filter.Extra[name] = v
		}
	}

	vehicles, err := h.store.Query(r.Context(), filter)
	if err != nil {
		if errors.Is(err, catalog.ErrPreconditionFailed) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unsupported filter combination", err)
			return
		}
		respondError(w, storeErrorStatus(err), "STORE_ERROR", "Catalog query failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"vehicles": vehicles,
		"count":    len(vehicles),
	}, start)
}

// recommendationRequest is the POST /api/v1/recommendations payload.
type recommendationRequest struct {
	Preferences models.Preferences `json:"preferences"`
	TopN        int                `json:"top_n" validate:"min=0,max=20"`
}

// Recommendations scores the candidate catalog against the submitted
// preferences and returns the top-ranked vehicles.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req recommendationRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Preferences.BodyType != nil && !req.Preferences.BodyType.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "body_type must be a supported body type", nil)
		return
	}
	if req.Preferences.FuelType != nil && !req.Preferences.FuelType.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "fuel_type must be a supported fuel type", nil)
		return
	}

	scored, err := h.engine.Recommend(r.Context(), req.Preferences, req.TopN)
	if err != nil {
		if coeffs.IsLoadError(err) {
			respondError(w, http.StatusInternalServerError, "COEFFICIENTS_ERROR", coeffsErrorMessage(err), err)
			return
		}
		respondError(w, storeErrorStatus(err), "STORE_ERROR", "Recommendation failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"recommendations": scored,
		"count":           len(scored),
	}, start)
}

// saveAnswersRequest is the POST /api/v1/answers payload.
type saveAnswersRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1"`
}

// SaveAnswers persists a raw questionnaire submission for later model
// retraining.
func (h *Handler) SaveAnswers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.answers == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Answer persistence is not configured", nil)
		return
	}

	var req saveAnswersRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	id, err := h.answers.Append(r.Context(), req.Answers, r.UserAgent())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "STORE_ERROR", "Saving answers failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{"id": id}, start)
}

// Chat relays a shopper conversation to the configured upstream
// assistant and returns the reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.chat == nil || !h.chat.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "CHAT_UNAVAILABLE", "Chat is not configured", nil)
		return
	}

	var req chat.Request
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "messages must not be empty", nil)
		return
	}

	resp, err := h.chat.Send(r.Context(), req)
	if err != nil {
		if errors.Is(err, chat.ErrUpstreamUnavailable) || errors.Is(err, chat.ErrDisabled) {
			respondError(w, http.StatusServiceUnavailable, "CHAT_UNAVAILABLE", "Chat upstream unavailable", err)
			return
		}
		respondError(w, http.StatusBadGateway, "CHAT_UNAVAILABLE", "Chat relay failed", err)
		return
	}

	respondSuccess(w, http.StatusOK, resp, start)
}

// Health reports process liveness, catalog size, and coefficient
// availability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := "ok"
	count, err := h.store.Count(r.Context())
	if err != nil {
		logging.Warn().Err(err).Msg("Health check catalog count failed")
		status = "degraded"
		count = -1
	}

	coeffsOK := true
	if h.loader != nil {
		if _, err := h.loader.Load(r.Context()); err != nil {
			coeffsOK = false
			status = "degraded"
		}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":         status,
		"catalog_size":   count,
		"coefficients":   coeffsOK,
		"chat_enabled":   h.chat != nil && h.chat.Enabled(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}, start)
}
