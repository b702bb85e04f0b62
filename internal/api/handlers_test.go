// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/carmatch/carmatch/internal/catalog"
	"github.com/carmatch/carmatch/internal/coeffs"
	"github.com/carmatch/carmatch/internal/models"
	"github.com/carmatch/carmatch/internal/recommend"
	"github.com/carmatch/carmatch/internal/seed"
)

// loaderFunc adapts a function to coeffs.Loader.
type loaderFunc func() (coeffs.Table, error)

func (f loaderFunc) Load(_ context.Context) (coeffs.Table, error) { return f() }

func testServer(t *testing.T, loader coeffs.Loader) (*httptest.Server, *catalog.BadgerStore) {
	t.Helper()

	store, err := catalog.Open(catalog.Options{
		InMemory: true,
		YearMin:  2020,
		YearMax:  2026,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if loader == nil {
		loader = loaderFunc(func() (coeffs.Table, error) {
			return coeffs.Table{
				"type_suv":      0.2,
				"fuel_electric": 0.8,
				"price":         -0.15,
				"speed":         0.5,
				"pollution":     -0.3,
				"size":          0.1,
			}, nil
		})
	}

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), store, loader, seed.NewSeeder(store))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	handler := NewHandler(store, engine, catalog.NewAnswersLog(store.DB()), nil, loader)
	router := NewRouter(handler, NewMiddleware(&MiddlewareConfig{
		RateLimitDisabled: true,
	}))

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var env models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestUpsertAndListVehicles(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/vehicles", map[string]interface{}{
		"vehicles": seed.Dataset()[:4],
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /vehicles status = %d, want 200", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Status != "success" {
		t.Fatalf("POST /vehicles status = %s, want success", env.Status)
	}

	listResp, err := http.Get(srv.URL + "/api/v1/vehicles?body_type=compact")
	if err != nil {
		t.Fatalf("GET /vehicles: %v", err)
	}
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /vehicles status = %d, want 200", listResp.StatusCode)
	}
	env = decodeEnvelope(t, listResp)
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("GET /vehicles data type = %T", env.Data)
	}
	if got := data["count"].(float64); got != 4 {
		t.Errorf("compact count = %v, want 4", got)
	}
}

func TestUpsertVehiclesRejectsEmptyBatch(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/vehicles", map[string]interface{}{
		"vehicles": []models.RawVehicle{},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
}

func TestListVehiclesRejectsUnknownEnum(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/vehicles?body_type=sedan")
	if err != nil {
		t.Fatalf("GET /vehicles: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
}

func TestListVehiclesRejectsMalformedNumericParams(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	for _, query := range []string{"year_min=abc", "year_max=20.5", "price_max=cheap"} {
		resp, err := http.Get(srv.URL + "/api/v1/vehicles?" + query)
		if err != nil {
			t.Fatalf("GET /vehicles?%s: %v", query, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET /vehicles?%s status = %d, want 400", query, resp.StatusCode)
		}
		env := decodeEnvelope(t, resp)
		if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
			t.Errorf("GET /vehicles?%s error = %+v, want VALIDATION_ERROR", query, env.Error)
		}
	}
}

func TestRecommendationsSeedEmptyCatalog(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	fuel := "electric"
	maxPrice := 50000.0
	resp := postJSON(t, srv.URL+"/api/v1/recommendations", map[string]interface{}{
		"preferences": map[string]interface{}{
			"fuel_type": fuel,
			"max_price": maxPrice,
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if got := data["count"].(float64); got != 3 {
		t.Errorf("recommendation count = %v, want 3 electric vehicles under 50000", got)
	}
}

func TestRecommendationsCoefficientFailure(t *testing.T) {
	t.Parallel()

	loader := loaderFunc(func() (coeffs.Table, error) {
		return nil, coeffs.ErrResourceNotFound
	})
	srv, _ := testServer(t, loader)

	resp := postJSON(t, srv.URL+"/api/v1/recommendations", map[string]interface{}{
		"preferences": map[string]interface{}{},
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "COEFFICIENTS_ERROR" {
		t.Errorf("error = %+v, want COEFFICIENTS_ERROR", env.Error)
	}
}

func TestRecommendationsRejectsBadTopN(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/recommendations", map[string]interface{}{
		"preferences": map[string]interface{}{},
		"top_n":       99,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestSaveAnswers(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/answers", map[string]interface{}{
		"answers": map[string]string{
			"body_type": "suv",
			"fuel_type": "electric",
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if id, _ := data["id"].(string); id == "" {
		t.Error("SaveAnswers returned empty id")
	}
}

func TestChatUnavailableWithoutConfig(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp := postJSON(t, srv.URL+"/api/v1/chat", map[string]interface{}{
		"messages": []map[string]string{{"role": "user", "content": "hi"}},
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Error == nil || env.Error.Code != "CHAT_UNAVAILABLE" {
		t.Errorf("error = %+v, want CHAT_UNAVAILABLE", env.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Error("missing X-Request-ID response header")
	}
	env := decodeEnvelope(t, resp)
	data := env.Data.(map[string]interface{})
	if data["status"] != "ok" {
		t.Errorf("health status = %v, want ok", data["status"])
	}
}
