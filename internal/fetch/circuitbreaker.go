package fetch

import (
	"fmt"
	"sync"
	"time"
)

// State is a circuit breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	ReadyToTrip func(counts Counts) bool
}

// Counts holds circuit breaker statistics.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// CircuitBreaker trips after repeated failures fetching a manifest or
// pack over the network, so a down origin fails fast instead of every
// caller independently exhausting its own retry budget against it.
//
// State transitions:
//   - Closed -> Open: when ReadyToTrip returns true
//   - Open -> Half-Open: after Timeout elapses
//   - Half-Open -> Closed: next request succeeds
//   - Half-Open -> Open: next request fails
type CircuitBreaker struct {
	config CircuitBreakerConfig
	state  State
	counts Counts
	expiry time.Time
	mu     sync.RWMutex
}

// NewCircuitBreaker applies defaults (MaxRequests 1, Timeout 60s, trip
// after 5 consecutive failures) to any zero fields in config.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	cb := &CircuitBreaker{config: config, state: StateClosed}
	if cb.config.MaxRequests == 0 {
		cb.config.MaxRequests = 1
	}
	if cb.config.Timeout == 0 {
		cb.config.Timeout = 60 * time.Second
	}
	if cb.config.ReadyToTrip == nil {
		cb.config.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	return cb
}

// Call runs fn if the breaker currently allows it and records the
// outcome. Returns ErrCircuitOpen without calling fn if it does not.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	cb.afterRequest(err == nil)
	return err
}

// State reports the current breaker state, resolving any pending
// open-to-half-open timeout transition first.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	state, _ := cb.currentState(time.Now())
	return state
}

// Counts returns a snapshot of the breaker's running totals, for a
// caller (Fetcher.CircuitStats) that wants to log why an origin is
// being treated as down rather than just that it is.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.counts
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, _ := cb.currentState(now)

	if state == StateOpen {
		return ErrCircuitOpen
	}
	if state == StateHalfOpen && cb.counts.Requests >= cb.config.MaxRequests {
		return ErrCircuitOpen
	}

	cb.counts.Requests++
	cb.expiry = now.Add(cb.config.Interval)
	return nil
}

func (cb *CircuitBreaker) afterRequest(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.currentState(time.Now())
	if success {
		cb.onSuccess(state)
	} else {
		cb.onFailure(state)
	}
}

func (cb *CircuitBreaker) onSuccess(state State) {
	cb.counts.TotalSuccesses++
	cb.counts.ConsecutiveSuccesses++
	cb.counts.ConsecutiveFailures = 0
	if state == StateHalfOpen {
		cb.setState(StateClosed)
	}
}

func (cb *CircuitBreaker) onFailure(state State) {
	cb.counts.TotalFailures++
	cb.counts.ConsecutiveFailures++
	cb.counts.ConsecutiveSuccesses = 0
	if state == StateHalfOpen {
		cb.setState(StateOpen)
	} else if cb.config.ReadyToTrip(cb.counts) {
		cb.setState(StateOpen)
	}
}

func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if cb.config.Interval > 0 && !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts = Counts{}
			cb.expiry = now.Add(cb.config.Interval)
		}
	case StateOpen:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.setState(StateHalfOpen)
		}
	}
	return cb.state, 0
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}
	cb.state = state
	if state == StateClosed || state == StateHalfOpen {
		cb.counts = Counts{}
	}
	if state == StateOpen {
		cb.expiry = time.Now().Add(cb.config.Timeout)
	} else {
		cb.expiry = time.Time{}
	}
}

// Reset forces the breaker back to closed with zero counts.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.counts = Counts{}
	cb.expiry = time.Time{}
}

func (cb *CircuitBreaker) String() string {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return fmt.Sprintf("CircuitBreaker[state=%s, counts=%+v]", cb.state, cb.counts)
}
