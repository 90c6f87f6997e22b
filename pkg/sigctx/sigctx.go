// Package sigctx derives contexts cancelled by termination signals.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var terminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
}

// NotifyContext returns a copy of parent that is cancelled on SIGINT,
// SIGTERM, SIGQUIT or any of extra.
func NotifyContext(
	parent context.Context, extra ...os.Signal,
) (context.Context, context.CancelFunc) {
	signals := append(append([]os.Signal{}, terminationSignals...), extra...)
	return signal.NotifyContext(parent, signals...)
}
