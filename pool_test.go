package docbuilder

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{
			name:    "explicit takes priority",
			workers: 4,
			want:    4,
		},
		{
			name:    "explicit can exceed max",
			workers: 16,
			want:    16,
		},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
		{
			name:    "negative uses auto calculation",
			workers: -3,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

func TestNewRenderPool_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{3, 3},
		{1, 1},
		{0, 1},
		{-2, 1},
	}
	for _, tt := range tests {
		if got := NewRenderPool(tt.n).Size(); got != tt.want {
			t.Errorf("NewRenderPool(%d).Size() = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestRenderPool_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	const size = 2
	pool := NewRenderPool(size)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire() error = %v", err)
				return
			}
			defer pool.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	if p := peak.Load(); p > size {
		t.Errorf("peak concurrency = %d, want at most %d", p, size)
	}
	if pool.InUse() != 0 {
		t.Errorf("InUse() = %d after all releases, want 0", pool.InUse())
	}
}

func TestRenderPool_AcquireCanceled(t *testing.T) {
	t.Parallel()

	pool := NewRenderPool(1)
	if err := pool.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := pool.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire() error = %v, want context.Canceled", err)
	}
}
