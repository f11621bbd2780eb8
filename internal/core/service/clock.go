package service

import (
	"context"
	"time"

	"github.com/kvision/portal-api/internal/core/ports"
)

type realClock struct{}

// NewClock returns the wall-clock implementation of ports.Clock.
func NewClock() ports.Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
