// Package resilience holds the serialization and dependency-protection
// primitives shared by the cache and the upstream clients.
package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key: while one
// call is in flight, later callers for that key wait and share its result,
// success or failure. Nothing is remembered once the call completes, so a
// failed call is retryable immediately.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*flightCall
}

type flightCall struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn for key, coalescing concurrent callers. The third return
// value reports whether the result was shared from another caller's flight.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*flightCall)
	}
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &flightCall{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.val, c.err, false
}

// Forget drops any in-flight registration for key so the next Do starts a
// fresh call instead of joining the current one. Waiters already attached
// to the old call still receive its result.
func (g *SingleFlight) Forget(key string) {
	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
}
