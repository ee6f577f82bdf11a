package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBreakerClient_PassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"next"}`))
	}))
	defer server.Close()

	bc := NewBreakerClient(NewClient())
	var v struct {
		Name string `json:"name"`
	}
	if err := bc.GetJSON(context.Background(), server.URL, &v); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if v.Name != "next" {
		t.Errorf("decoded name = %q, want %q", v.Name, "next")
	}

	for host, state := range bc.BreakerState() {
		if state != "closed" {
			t.Errorf("breaker for %s = %s, want closed", host, state)
		}
	}
}

func TestBreakerClient_OpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	bc := NewBreakerClient(NewClient(WithMaxRetries(0), WithBaseDelay(time.Millisecond)))
	var v struct{}
	for i := 0; i < 5; i++ {
		if err := bc.GetJSON(context.Background(), server.URL, &v); err == nil {
			t.Fatalf("call %d: expected error from failing upstream", i)
		}
	}

	err := bc.GetJSON(context.Background(), server.URL, &v)
	if err == nil {
		t.Fatal("expected error from open breaker")
	}
	if !errors.Is(err, ErrUpstreamDown) {
		t.Errorf("error %v does not unwrap to ErrUpstreamDown", err)
	}
	if !strings.Contains(err.Error(), "circuit breaker open") {
		t.Errorf("error %q does not mention the open breaker", err)
	}

	states := bc.BreakerState()
	if len(states) != 1 {
		t.Fatalf("expected 1 breaker, got %d", len(states))
	}
	for host, state := range states {
		if state != "open" {
			t.Errorf("breaker for %s = %s, want open", host, state)
		}
	}
}

func TestBreakerClient_NotFoundDoesNotTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	bc := NewBreakerClient(NewClient())
	var v struct{}
	for i := 0; i < 6; i++ {
		if err := bc.GetJSON(context.Background(), server.URL, &v); !errors.Is(err, ErrNotFound) {
			t.Fatalf("call %d: error = %v, want ErrNotFound", i, err)
		}
	}

	for host, state := range bc.BreakerState() {
		if state != "closed" {
			t.Errorf("breaker for %s = %s, want closed after 404s", host, state)
		}
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://registry.npmjs.org/next", "registry.npmjs.org"},
		{"http://localhost:4873/next", "localhost:4873"},
		{"not a url", "not a url"},
		{strings.Repeat("x", 60), strings.Repeat("x", 50)},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := extractHost(tt.url); got != tt.want {
				t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
