// Package events fans roster changes out to external sinks.
package events

import (
	"context"
	"errors"
)

// Publisher accepts roster events.
type Publisher interface {
	Publish(ctx context.Context, event RosterEvent) error
}

// RecentReader returns the newest events first.
type RecentReader interface {
	Recent(ctx context.Context, limit int) ([]RosterEvent, error)
}

// Multi publishes to every sink in order. A failing sink does not stop the others; all
// failures are joined into the returned error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event RosterEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, RosterEvent) error { return nil }
