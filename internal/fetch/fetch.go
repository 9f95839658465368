// Package fetch retrieves manifests and packs over HTTP for a Runtime
// built from a remote release instead of a local directory, applying
// the same retry-with-backoff and circuit-breaking policy every
// outbound HTTP call in this codebase follows.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures a Fetcher.
type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
	CircuitBreaker *CircuitBreakerConfig
	Transport      http.RoundTripper
}

func (c *Config) validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout cannot be negative", ErrInvalidConfig)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", ErrInvalidConfig)
	}
	if c.RetryWaitMax > 0 && c.RetryWaitMin > c.RetryWaitMax {
		return fmt.Errorf("%w: retry wait min cannot exceed retry wait max", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryWaitMin == 0 {
		c.RetryWaitMin = time.Second
	}
	if c.RetryWaitMax == 0 {
		c.RetryWaitMax = 30 * time.Second
	}
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
}

// Fetcher performs GET requests for remote manifests and packs, retrying
// transient failures and tripping a circuit breaker against a
// persistently failing origin.
type Fetcher struct {
	httpClient     *http.Client
	retryPolicy    retryPolicy
	circuitBreaker *CircuitBreaker
}

// New builds a Fetcher from cfg, applying defaults to unset fields.
func New(cfg Config) (*Fetcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	var cb *CircuitBreaker
	if cfg.CircuitBreaker != nil {
		cb = NewCircuitBreaker(*cfg.CircuitBreaker)
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		retryPolicy: retryPolicy{
			MaxRetries:   cfg.MaxRetries,
			RetryWaitMin: cfg.RetryWaitMin,
			RetryWaitMax: cfg.RetryWaitMax,
		},
		circuitBreaker: cb,
	}, nil
}

// CircuitStats reports the fetcher's circuit breaker state and running
// counts, for callers that want to log why an origin is being treated
// as down. ok is false when no circuit breaker is configured.
func (f *Fetcher) CircuitStats() (state State, counts Counts, ok bool) {
	if f.circuitBreaker == nil {
		return StateClosed, Counts{}, false
	}
	return f.circuitBreaker.State(), f.circuitBreaker.Counts(), true
}

// Get fetches url's body, retrying transient failures per the configured
// retry policy and, if a circuit breaker is configured, failing fast
// while it is open.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	fn := func() error {
		b, err := f.getOnce(ctx, url)
		body = b
		return err
	}

	if f.circuitBreaker != nil {
		if err := f.circuitBreaker.Call(fn); err != nil {
			return nil, err
		}
		return body, nil
	}
	if err := fn(); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) getOnce(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= f.retryPolicy.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := f.httpClient.Do(req)
		if !f.retryPolicy.shouldRetry(resp, err) {
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("%w: %s returned %d", ErrBadStatus, url, resp.StatusCode)
			}
			return io.ReadAll(resp.Body)
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("%w: %s returned %d", ErrBadStatus, url, resp.StatusCode)
			resp.Body.Close()
		}

		if attempt < f.retryPolicy.MaxRetries {
			wait := f.retryPolicy.backoff(attempt)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
	}
	return nil, ErrMaxRetriesExceeded
}
