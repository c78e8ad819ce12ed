package docbuilder

import (
	"context"
	"runtime"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one render can run.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browsers to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// RenderPool bounds how many browsers run at once. A slot is only a permit:
// the renderer still launches a fresh browser for every document.
type RenderPool struct {
	sem chan struct{}
}

// NewRenderPool creates a pool with n slots (at least one).
func NewRenderPool(n int) *RenderPool {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &RenderPool{sem: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx is done.
func (p *RenderPool) Acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (p *RenderPool) Release() {
	<-p.sem
}

// Size returns the pool capacity.
func (p *RenderPool) Size() int {
	return cap(p.sem)
}

// InUse returns the number of slots currently held.
func (p *RenderPool) InUse() int {
	return len(p.sem)
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
