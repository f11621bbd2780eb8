package ports

import (
	"context"
	"time"
)

// Clock abstracts time for components with retry/delay behaviour, so the
// bounded-retry property of profile resolution is testable without real
// sleeps.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the
	// latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
