package gateway

import (
	"context"
	"time"
)

// WithTimeout bounds one gateway call by d. A zero or negative d leaves
// the call unbounded apart from ctx itself.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
