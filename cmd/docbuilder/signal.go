package main

import (
	"context"
	"os/signal"
)

// shutdownContext is canceled on the first of shutdownSignals, which
// lets the HTTP server drain and the browser pool close before exit.
func shutdownContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
