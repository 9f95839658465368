package fetch

import (
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

// retryPolicy decides which failures are worth retrying and how long to
// wait between attempts, grounded on pkg/httpclient/retry.go.
type retryPolicy struct {
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// shouldRetry reports whether a request should be retried given its
// response and error. Network errors, 429, and 5xx are retryable.
func (rp retryPolicy) shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return rp.isRetryableError(err)
	}
	if resp != nil {
		return rp.isRetryableStatusCode(resp.StatusCode)
	}
	return false
}

func (rp retryPolicy) backoff(attempt int) time.Duration {
	return exponentialBackoff(attempt, rp.RetryWaitMin, rp.RetryWaitMax)
}

func (rp retryPolicy) isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	switch {
	case errors.Is(err, io.EOF):
		return true
	case errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.Is(err, syscall.ECONNREFUSED):
		return true
	case errors.Is(err, syscall.ECONNRESET):
		return true
	case errors.Is(err, syscall.EPIPE):
		return true
	}
	return false
}

func (rp retryPolicy) isRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
