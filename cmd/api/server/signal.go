package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal returns a context cancelled on SIGINT or SIGTERM. A second
// signal after the first one kills the process with the default handler.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
