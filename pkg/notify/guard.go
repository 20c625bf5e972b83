package notify

import (
	"context"

	"github.com/akeren/jobtracker-api/pkg/circuitbreaker"
)

// Guarded stops calling a sink that keeps failing until the breaker's recovery timeout passes.
type Guarded struct {
	next    Notifier
	breaker circuitbreaker.CircuitBreaker
}

func NewGuarded(next Notifier, cfg *circuitbreaker.Config) *Guarded {
	return &Guarded{next: next, breaker: circuitbreaker.NewCircuitBreaker(cfg)}
}

func (g *Guarded) Name() string {
	return g.next.Name()
}

func (g *Guarded) Notify(ctx context.Context, signup Signup) error {
	return g.breaker.Call(func() error {
		return g.next.Notify(ctx, signup)
	})
}
