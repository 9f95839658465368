package publishauth

import (
	"sync"

	"golang.org/x/time/rate"
)

// PublishLimiter throttles publish attempts per signing key id, giving
// each key its own token bucket instead of one limiter shared across
// every publisher, built over golang.org/x/time/rate's token-bucket
// implementation.
type PublishLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewPublishLimiter builds a PublishLimiter from cfg.
func NewPublishLimiter(cfg *Config) *PublishLimiter {
	return &PublishLimiter{
		rps:      rate.Limit(cfg.RateLimitRPS),
		burst:    cfg.RateLimitBurst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether keyID may proceed right now, consuming a token
// from its bucket if so.
func (l *PublishLimiter) Allow(keyID string) bool {
	return l.limiterFor(keyID).Allow()
}

func (l *PublishLimiter) limiterFor(keyID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[keyID]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[keyID] = limiter
	}
	return limiter
}
