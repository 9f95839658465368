package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetcherRetriesTransientFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f, err := New(Config{MaxRetries: 3, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	body, err := f.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetcherGivesUpAfterMaxRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f, err := New(Config{MaxRetries: 2, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = f.Get(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 2 },
		Timeout:     time.Minute,
	})

	fail := func() error { return ErrBadStatus }
	cb.Call(fail)
	cb.Call(fail)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open after two failures", cb.State())
	}

	err := cb.Call(func() error { return nil })
	if err != ErrCircuitOpen {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}

	counts := cb.Counts()
	if counts.ConsecutiveFailures != 2 || counts.TotalFailures != 2 {
		t.Errorf("counts = %+v, want 2 consecutive and total failures", counts)
	}
}

func TestFetcherCircuitStatsReportsCounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f, err := New(Config{
		MaxRetries: 0,
		CircuitBreaker: &CircuitBreakerConfig{
			ReadyToTrip: func(counts Counts) bool { return counts.ConsecutiveFailures >= 1 },
			Timeout:     time.Minute,
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, _, ok := f.CircuitStats(); !ok {
		t.Fatal("expected CircuitStats to report ok when a breaker is configured")
	}

	if _, err := f.Get(context.Background(), server.URL); err == nil {
		t.Fatal("expected error from unavailable server")
	}

	state, counts, ok := f.CircuitStats()
	if !ok {
		t.Fatal("expected CircuitStats ok after a request")
	}
	if state != StateOpen {
		t.Errorf("state = %v, want open", state)
	}
	if counts.ConsecutiveFailures == 0 {
		t.Error("expected ConsecutiveFailures > 0")
	}
}

func TestFetcherCircuitStatsWithoutBreaker(t *testing.T) {
	f, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, ok := f.CircuitStats(); ok {
		t.Error("expected CircuitStats not ok when no breaker is configured")
	}
}
