package syncs

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(2)
	ctx := context.Background()
	var running, peak atomic.Int64
	var wg sync.WaitGroup
	for range 16 {
		if err := sem.Acquire(ctx); err != nil {
			t.Fatal(err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			running.Add(-1)
		}()
	}
	wg.Wait()
	if p := peak.Load(); p > 2 {
		t.Fatalf("got %d", p)
	}
}

func TestSemaphoreCanceled(t *testing.T) {
	sem := NewSemaphore(0)
	if err := sem.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sem.Acquire(ctx); err != context.Canceled {
		t.Fatalf("got %v", err)
	}
}
