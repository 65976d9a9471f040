package tracker

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned by sources on platforms without an implementation.
var ErrUnsupported = errors.New("not supported on this platform")

// Window identifies the foreground window.
type Window struct {
	AppName string
	Title   string
}

// Source resolves the current foreground window.
type Source interface {
	Active(ctx context.Context) (Window, error)
}

// IdleSource reports how long the user has been idle.
type IdleSource interface {
	Idle(ctx context.Context) (time.Duration, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Window, error)

func (f SourceFunc) Active(ctx context.Context) (Window, error) { return f(ctx) }

// IdleFunc adapts a function to IdleSource.
type IdleFunc func(ctx context.Context) (time.Duration, error)

func (f IdleFunc) Idle(ctx context.Context) (time.Duration, error) { return f(ctx) }
