package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CoalescesConcurrentCallers(t *testing.T) {
	var g SingleFlight
	var upstreamCalls int32

	const workers = 25
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, _ := g.Do("league-1/match-9", func() (any, error) {
				atomic.AddInt32(&upstreamCalls, 1)
				time.Sleep(20 * time.Millisecond)
				return "record", nil
			})
			if err != nil {
				t.Errorf("flight failed: %v", err)
			}
			if val != "record" {
				t.Errorf("unexpected value: %v", val)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&upstreamCalls); got != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", got)
	}
}

func TestSingleFlight_FailureIsSharedThenRetryable(t *testing.T) {
	var g SingleFlight
	boom := errors.New("upstream down")
	calls := 0

	_, err, _ := g.Do("k", func() (any, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	// The failed call must not be remembered.
	_, err, _ = g.Do("k", func() (any, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected two calls, got %d", calls)
	}
}

func TestSingleFlight_KeysAreIndependent(t *testing.T) {
	var g SingleFlight
	var calls int32

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			_, _, _ = g.Do(k, func() (any, error) {
				atomic.AddInt32(&calls, 1)
				return k, nil
			})
		}(key)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected three calls, got %d", got)
	}
}
