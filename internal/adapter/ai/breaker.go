package ai

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fairyhunter13/resume-screener/internal/adapter/observability"
	"github.com/fairyhunter13/resume-screener/internal/domain"
)

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	// CircuitClosed lets every call through.
	CircuitClosed CircuitState = iota
	// CircuitOpen rejects calls until the cooldown has passed.
	CircuitOpen
	// CircuitHalfOpen lets a single probe call through.
	CircuitHalfOpen
)

// String returns a string representation of the circuit state
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker opens after maxFailures consecutive failures and rejects
// calls for cooldown, after which one probe decides whether to close again.
type CircuitBreaker struct {
	mu          sync.Mutex
	name        string
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	state       CircuitState
	failures    int
	openedAt    time.Time
	probeActive bool
}

// NewCircuitBreaker creates a breaker; non-positive arguments select 3 failures and 30s.
func NewCircuitBreaker(name string, maxFailures int, cooldown time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &CircuitBreaker{name: name, maxFailures: maxFailures, cooldown: cooldown, now: time.Now}
}

// Allow reports whether a call may proceed. In half-open state only one
// caller gets through until its outcome is recorded.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			return false
		}
		cb.state = CircuitHalfOpen
		cb.probeActive = true
		return true
	default:
		if cb.probeActive {
			return false
		}
		cb.probeActive = true
		return true
	}
}

// RecordSuccess closes the circuit and resets the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != CircuitClosed {
		slog.Info("circuit breaker closed", slog.String("name", cb.name))
		observability.SetCircuitOpen(cb.name, false)
	}
	cb.state = CircuitClosed
	cb.failures = 0
	cb.probeActive = false
}

// RecordFailure counts a failure and opens the circuit at the threshold or
// when the half-open probe fails.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.probeActive = false
	if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
		if cb.state != CircuitOpen {
			slog.Warn("circuit breaker opened",
				slog.String("name", cb.name),
				slog.Int("failure_count", cb.failures),
				slog.Int("threshold", cb.maxFailures),
				slog.Duration("cooldown", cb.cooldown))
			observability.SetCircuitOpen(cb.name, true)
		}
		cb.state = CircuitOpen
		cb.openedAt = cb.now()
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

type breakerClient struct {
	base    domain.ScoringClient
	breaker *CircuitBreaker
}

// WithBreaker guards base with breaker. While the circuit is open Complete
// fails fast with domain.ErrCircuitOpen.
func WithBreaker(base domain.ScoringClient, breaker *CircuitBreaker) domain.ScoringClient {
	if base == nil || breaker == nil {
		return base
	}
	return &breakerClient{base: base, breaker: breaker}
}

func (c *breakerClient) Complete(ctx domain.Context, prompt string) (string, error) {
	if !c.breaker.Allow() {
		return "", fmt.Errorf("%w: %s", domain.ErrCircuitOpen, c.base.Provider())
	}
	out, err := c.base.Complete(ctx, prompt)
	if err != nil {
		c.breaker.RecordFailure()
		return "", err
	}
	c.breaker.RecordSuccess()
	return out, nil
}

func (c *breakerClient) Provider() string { return c.base.Provider() }
