// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// countingService records how often it is served and blocks until
// canceled.
type countingService struct {
	serves atomic.Int32
}

func (s *countingService) Serve(ctx context.Context) error {
	s.serves.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return "counting-service" }

func TestNewTreeAppliesDefaults(t *testing.T) {
	t.Parallel()

	tree, err := NewTree(slog.Default(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	if tree.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want 5.0", tree.config.FailureThreshold)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", tree.config.ShutdownTimeout)
	}
	if tree.Root() == nil {
		t.Error("Root() = nil")
	}
}

func TestTreeServesAndStopsServices(t *testing.T) {
	t.Parallel()

	tree, err := NewTree(slog.Default(), DefaultTreeConfig())
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}

	storageSvc := &countingService{}
	apiSvc := &countingService{}
	tree.AddStorageService(storageSvc)
	tree.AddAPIService(apiSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for storageSvc.serves.Load() == 0 || apiSvc.serves.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("services were not started")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("ServeBackground() = %v, want nil or context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop after cancellation")
	}
}
