package fetch

import "errors"

// Sentinel errors for remote pack fetching, mirroring
// pkg/httpclient/errors.go's per-package sentinel set.
var (
	ErrCircuitOpen        = errors.New("fetch: circuit breaker open")
	ErrMaxRetriesExceeded = errors.New("fetch: max retries exceeded")
	ErrInvalidConfig      = errors.New("fetch: invalid configuration")
	ErrBadStatus          = errors.New("fetch: unexpected response status")
)
