package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetCachesWithinTTL(t *testing.T) {
	c := New[string](time.Minute)
	calls := 0
	fill := func(context.Context) (string, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), "k", fill)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if v != "value" {
			t.Errorf("Expected 'value', got %q", v)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 fill, got %d", calls)
	}
}

func TestGetExpires(t *testing.T) {
	c := New[int](time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	calls := 0
	fill := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	if v, _ := c.Get(context.Background(), "k", fill); v != 1 {
		t.Fatalf("Expected 1, got %d", v)
	}
	now = now.Add(2 * time.Minute)
	if v, _ := c.Get(context.Background(), "k", fill); v != 2 {
		t.Errorf("Expected refill after expiry, got %d", v)
	}
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := New[string](time.Minute)
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), "k", func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Failures must not be stored, cache has %d entries", c.Len())
	}

	v, err := c.Get(context.Background(), "k", func(context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("Expected recovery after failure, got %q, %v", v, err)
	}
}

func TestZeroTTLDisablesStorage(t *testing.T) {
	c := New[string](0)
	calls := 0
	fill := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}
	_, _ = c.Get(context.Background(), "k", fill)
	_, _ = c.Get(context.Background(), "k", fill)
	if calls != 2 {
		t.Errorf("Expected 2 fills with zero TTL, got %d", calls)
	}
}

func TestInvalidate(t *testing.T) {
	c := New[string](time.Minute)
	_, _ = c.Get(context.Background(), "a", func(context.Context) (string, error) { return "x", nil })
	if c.Len() != 1 {
		t.Fatalf("Expected 1 entry, got %d", c.Len())
	}
	c.Invalidate()
	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Invalidate, got %d", c.Len())
	}
}

func TestConcurrentMissesCollapse(t *testing.T) {
	c := New[string](time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})

	fill := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.Get(context.Background(), "k", fill)
		}(i)
	}

	// Give the goroutines a moment to pile up on the in-flight fill.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("Expected a single fill, got %d", calls.Load())
	}
	for i, r := range results {
		if r != "shared" {
			t.Errorf("results[%d] = %q, want shared", i, r)
		}
	}
}

func TestCancelledCallerDoesNotFailSharedFill(t *testing.T) {
	c := New[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	fill := func(ctx context.Context) (string, error) {
		close(started)
		select {
		case <-release:
			return "shared", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, "k", fill)
		errA <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "k", fill)
		resB <- result{v, err}
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected the cancelled caller to stop waiting, got %v", err)
	}

	close(release)
	r := <-resB
	if r.err != nil || r.v != "shared" {
		t.Errorf("Expected live caller to get the shared value, got %q, %v", r.v, r.err)
	}
	if v, ok := c.lookup("k"); !ok || v != "shared" {
		t.Errorf("Expected the fill to be stored after the first caller left")
	}
}

func TestFillTimeout(t *testing.T) {
	c := New[string](time.Minute)
	c.fillTimeout = 10 * time.Millisecond

	_, err := c.Get(context.Background(), "k", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected the fill to hit its own timeout, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Timed out fill must not be stored, got %d entries", c.Len())
	}
}
