//go:build !linux

package tracker

import (
	"context"
	"time"
)

type unsupportedSource struct{}

// NewSystemSource returns the platform's foreground window source.
func NewSystemSource() Source { return unsupportedSource{} }

func (unsupportedSource) Active(context.Context) (Window, error) {
	return Window{}, ErrUnsupported
}

// NewSystemIdleSource returns the platform's idle time source.
func NewSystemIdleSource() IdleSource {
	return IdleFunc(func(context.Context) (time.Duration, error) { return 0, ErrUnsupported })
}
