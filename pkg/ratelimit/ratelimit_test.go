package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLimiterSpacing(t *testing.T) {
	const interval = 40 * time.Millisecond
	l := New(float64(time.Second) / float64(interval))

	if l.Interval() != interval {
		t.Fatalf("Interval() = %v, want %v", l.Interval(), interval)
	}

	ctx := context.Background()
	const n = 5
	start := time.Now()
	for i := 0; i < n; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() error: %v", err)
		}
	}
	elapsed := time.Since(start)

	if want := (n - 1) * interval; elapsed < want {
		t.Errorf("%d grants took %v, want at least %v", n, elapsed, want)
	}
}

func TestLimiterConcurrentCallers(t *testing.T) {
	const interval = 25 * time.Millisecond
	l := New(float64(time.Second) / float64(interval))

	ctx := context.Background()
	const n = 4
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(ctx); err != nil {
				t.Errorf("Acquire() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if want := (n - 1) * interval; time.Since(start) < want {
		t.Errorf("concurrent grants finished in %v, want at least %v", time.Since(start), want)
	}
}

func TestLimiterCancel(t *testing.T) {
	l := New(0.1) // one grant per 10s
	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire() error: %v", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := l.Acquire(cctx)
	if err == nil {
		t.Fatal("Acquire() should fail when ctx ends before the grant")
	}

	// A failed wait leaves the configured pacing untouched.
	if l.Interval() != 10*time.Second {
		t.Errorf("Interval() = %v, want 10s", l.Interval())
	}
}

func TestLimiterUnlimited(t *testing.T) {
	l := New(0)
	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire() error: %v", err)
		}
	}
	if time.Since(start) > time.Second {
		t.Error("unlimited limiter should not wait")
	}
	if l.Interval() != 0 {
		t.Errorf("Interval() = %v, want 0", l.Interval())
	}
}
