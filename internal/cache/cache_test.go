// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package cache

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("key", "value")
	got, ok := c.Get("key")
	if !ok {
		t.Fatal("Get() miss after Set()")
	}
	if got != "value" {
		t.Errorf("Get() = %v, want value", got)
	}
}

func TestCacheMiss(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	if _, ok := c.Get("absent"); ok {
		t.Error("Get() hit for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.SetWithTTL("short", "value", 10*time.Millisecond)
	if _, ok := c.Get("short"); !ok {
		t.Fatal("Get() miss before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("Get() hit after expiry")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get() hit after Delete()")
	}

	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Error("Get() hit after Clear()")
	}
}

func TestCacheStats(t *testing.T) {
	t.Parallel()

	c := New(time.Minute)
	defer c.Close()

	c.Set("key", "value")
	c.Get("key")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
}
