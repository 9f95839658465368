package publishauth

import "errors"

// Sentinel errors for publisher authentication, mirroring the
// per-package sentinel convention of pkg/auth/errors.go.
var (
	ErrInvalidConfig     = errors.New("publishauth: invalid configuration")
	ErrInvalidToken      = errors.New("publishauth: invalid or expired token")
	ErrMissingScope      = errors.New("publishauth: token missing required scope")
	ErrRateLimitExceeded = errors.New("publishauth: rate limit exceeded")
)
