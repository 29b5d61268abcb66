package ports

import (
	"context"

	"github.com/layer-3/nearstore/core"
)

// SessionObserver is notified after every session status mutation
type SessionObserver interface {
	SessionChanged(ctx context.Context, status core.SessionStatus) error
}

// SessionObserverFunc adapts a function to SessionObserver
type SessionObserverFunc func(ctx context.Context, status core.SessionStatus) error

func (f SessionObserverFunc) SessionChanged(ctx context.Context, status core.SessionStatus) error {
	return f(ctx, status)
}
