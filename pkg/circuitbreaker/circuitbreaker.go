// Package circuitbreaker stops calling a failing dependency until it has had time to recover.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

type CircuitBreaker interface {
	Call(func() error) error
	State() State
	Reset()
}

type Config struct {
	Name             string
	FailureThreshold int           // consecutive failures before opening
	RecoveryTimeout  time.Duration // time spent open before a trial call
	SuccessThreshold int           // trial successes needed to close again

	// OnStateChange runs outside the breaker lock.
	OnStateChange func(name string, from, to State)

	now func() time.Time
}

func DefaultConfig() *Config {
	return &Config{
		Name:             "default",
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		SuccessThreshold: 1,
	}
}

type breaker struct {
	cfg Config

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	nextAttempt time.Time
}

// NewCircuitBreaker applies defaults for nil config and non-positive fields.
func NewCircuitBreaker(cfg *Config) CircuitBreaker {
	c := *DefaultConfig()
	if cfg != nil {
		c.Name = cfg.Name
		c.OnStateChange = cfg.OnStateChange
		c.now = cfg.now
		if cfg.FailureThreshold > 0 {
			c.FailureThreshold = cfg.FailureThreshold
		}
		if cfg.RecoveryTimeout > 0 {
			c.RecoveryTimeout = cfg.RecoveryTimeout
		}
		if cfg.SuccessThreshold > 0 {
			c.SuccessThreshold = cfg.SuccessThreshold
		}
	}
	if c.now == nil {
		c.now = time.Now
	}

	return &breaker{cfg: c, state: Closed}
}

func (b *breaker) Call(fn func() error) error {
	b.mu.Lock()
	from := b.state
	if b.state == Open && !b.cfg.now().Before(b.nextAttempt) {
		b.state = HalfOpen
		b.successes = 0
	}
	allowed := b.state != Open
	to := b.state
	b.mu.Unlock()
	b.notify(from, to)

	if !allowed {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	from = b.state
	if err != nil {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	to = b.state
	b.mu.Unlock()
	b.notify(from, to)

	return err
}

func (b *breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *breaker) Reset() {
	b.mu.Lock()
	from := b.state
	b.state = Closed
	b.failures = 0
	b.successes = 0
	b.mu.Unlock()
	b.notify(from, Closed)
}

func (b *breaker) onFailure() {
	b.failures++

	if b.state == HalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.state = Open
		b.nextAttempt = b.cfg.now().Add(b.cfg.RecoveryTimeout)
	}
}

func (b *breaker) onSuccess() {
	b.failures = 0

	if b.state != HalfOpen {
		return
	}
	b.successes++
	if b.successes >= b.cfg.SuccessThreshold {
		b.state = Closed
		b.successes = 0
	}
}

func (b *breaker) notify(from, to State) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}
