// Package notify delivers best-effort notifications about new waitlist signups.
package notify

import (
	"context"
	"errors"
	"time"
)

type Signup struct {
	ID           string
	Email        string
	BusinessType string
	Source       string
	CreatedAt    time.Time
}

type Notifier interface {
	Notify(ctx context.Context, signup Signup) error
	Name() string
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Multi fans a signup out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, signup Signup) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, signup); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Name() string {
	return "multi"
}

// Noop is used when no sink is configured.
type Noop struct{}

func (Noop) Notify(context.Context, Signup) error { return nil }

func (Noop) Name() string { return "noop" }
