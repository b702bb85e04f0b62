// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

// Package metrics provides Prometheus instrumentation for the catalog
// store, the recommendation engine, the coefficient cache, the chat
// circuit breaker, and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Catalog store metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_store_operation_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_store_operation_errors_total",
			Help: "Total number of catalog store operation errors",
		},
		[]string{"operation", "error_type"},
	)

	RecordsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_records_skipped_total",
			Help: "Total number of records skipped during ingestion validation",
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Current number of records in the catalog",
		},
	)

	// Recommendation engine metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "End-to-end recommendation request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fallbacks_total",
			Help: "Total number of candidate-fetch fallbacks by stage",
		},
		[]string{"stage"}, // "list_all", "seed", "relaxed"
	)

	ScoringFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_scoring_failures_total",
			Help: "Total number of per-vehicle scoring failures recovered with the sentinel score",
		},
	)

	// Coefficient cache metrics
	CoefficientCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coefficient_cache_hits_total",
			Help: "Total number of coefficient table cache hits",
		},
	)

	CoefficientCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "coefficient_cache_misses_total",
			Help: "Total number of coefficient table cache misses",
		},
	)

	// Chat relay metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)
)

// ObserveStoreOp records a store operation's duration and failure, if any.
func ObserveStoreOp(operation string, start time.Time, err error) {
	StoreOpDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(operation, "store_error").Inc()
	}
}

// ObserveAPIRequest records one served API request.
func ObserveAPIRequest(endpoint, method string, status int, start time.Time) {
	APIRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
}
