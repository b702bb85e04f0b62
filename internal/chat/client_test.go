// CarMatch - Vehicle Catalog and Preference-Driven Recommendations
// Copyright 2026 CarMatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carmatch/carmatch

package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newUpstream(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("upstream got method %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("upstream got Authorization %q, want bearer token", got)
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"model": "test-model",
				"choices": []map[string]any{
					{"message": map[string]string{"role": "assistant", "content": reply}},
				},
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) Config {
	return Config{
		Enabled:     true,
		UpstreamURL: url,
		APIKey:      "test-key",
		Model:       "test-model",
		Timeout:     5 * time.Second,
	}
}

func TestSendRelaysReply(t *testing.T) {
	t.Parallel()

	srv := newUpstream(t, http.StatusOK, "Try the RAV4.")
	client := NewClient(testConfig(srv.URL))

	resp, err := client.Send(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "Which SUV fits a family of five?"}},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if resp.Reply != "Try the RAV4." {
		t.Errorf("Send() reply = %q, want %q", resp.Reply, "Try the RAV4.")
	}
	if resp.Model != "test-model" {
		t.Errorf("Send() model = %q, want test-model", resp.Model)
	}
}

func TestSendDisabled(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{Enabled: false})
	_, err := client.Send(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestSendEmptyMessages(t *testing.T) {
	t.Parallel()

	srv := newUpstream(t, http.StatusOK, "unused")
	client := NewClient(testConfig(srv.URL))

	if _, err := client.Send(context.Background(), Request{}); err == nil {
		t.Error("Send() with no messages = nil error, want error")
	}
}

func TestSendUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(testConfig(srv.URL))
	_, err := client.Send(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("Send() error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestCircuitOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(testConfig(srv.URL))
	req := Request{Messages: []Message{{Role: "user", Content: "hello"}}}

	// Drive enough failures to trip the breaker, then verify requests
	// are rejected without reaching the upstream.
	for i := 0; i < 10; i++ {
		_, _ = client.Send(context.Background(), req)
	}

	_, err := client.Send(context.Background(), req)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("Send() after failures = %v, want ErrUpstreamUnavailable", err)
	}
}
