// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package coeffs

import (
	"context"
	"time"

	"github.com/carmatch/carmatch/internal/cache"
	"github.com/carmatch/carmatch/internal/metrics"
)

const cacheKey = "coefficients"

// CachedLoader wraps a Loader with a TTL cache so repeated recommendation
// requests reuse the parsed table. Load failures are never cached.
type CachedLoader struct {
	inner Loader
	cache *cache.Cache
}

// NewCachedLoader wraps inner with the given TTL. A zero TTL disables
// caching and returns inner unchanged behavior-wise, so callers can wire
// either without branching.
func NewCachedLoader(inner Loader, ttl time.Duration) *CachedLoader {
	var c *cache.Cache
	if ttl > 0 {
		c = cache.New(ttl)
	}
	return &CachedLoader{inner: inner, cache: c}
}

// Load returns the cached table when fresh, otherwise delegates to the
// inner loader and caches the result.
func (l *CachedLoader) Load(ctx context.Context) (Table, error) {
	if l.cache != nil {
		if cached, ok := l.cache.Get(cacheKey); ok {
			metrics.CoefficientCacheHits.Inc()
			return cached.(Table), nil
		}
	}
	metrics.CoefficientCacheMisses.Inc()

	table, err := l.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.Set(cacheKey, table)
	}
	return table, nil
}

// Invalidate drops the cached table, forcing a reload on next use.
func (l *CachedLoader) Invalidate() {
	if l.cache != nil {
		l.cache.Delete(cacheKey)
	}
}

// Close releases the cache's background resources.
func (l *CachedLoader) Close() {
	if l.cache != nil {
		l.cache.Close()
	}
}
