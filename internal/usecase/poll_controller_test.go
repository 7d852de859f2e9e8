package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/platform/logging"
)

type scriptedResolver struct {
	calls    atomic.Int32
	resolve  func(call int32) (Resolution, error)
	blockFor time.Duration
}

func (r *scriptedResolver) ResolveByKey(ctx context.Context, leagueID, matchID string) (Resolution, error) {
	call := r.calls.Add(1)
	if r.blockFor > 0 {
		select {
		case <-ctx.Done():
			return Resolution{}, ctx.Err()
		case <-time.After(r.blockFor):
		}
	}
	return r.resolve(call)
}

func testPollConfig() PollConfig {
	return PollConfig{
		LiveInterval:    5 * time.Millisecond,
		DefaultInterval: 10 * time.Millisecond,
	}
}

func TestPollConfig_IntervalFor(t *testing.T) {
	cfg := PollConfig{LiveInterval: time.Second, DefaultInterval: time.Minute}

	require.Equal(t, time.Second, cfg.intervalFor(match.CategoryLive))
	require.Equal(t, time.Minute, cfg.intervalFor(match.CategoryUpcoming))
	require.Equal(t, time.Minute, cfg.intervalFor(match.CategoryOther))
	require.Zero(t, cfg.intervalFor(match.CategoryFinished), "finished matches stop polling")
}

func TestPollController_StopsOnceFinished(t *testing.T) {
	resolver := &scriptedResolver{
		resolve: func(call int32) (Resolution, error) {
			status := "Live"
			if call >= 3 {
				status = "Slutspelad"
			}
			return Resolution{Match: match.UnifiedMatch{Status: status}}, nil
		},
	}
	controller, err := NewPollController(resolver, 4, testPollConfig(), logging.NewNop())
	require.NoError(t, err)
	defer controller.Close()

	var delivered atomic.Int32
	session := controller.Start(context.Background(), "L1", "M1", func(Resolution) {
		delivered.Add(1)
	})

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop after finished classification")
	}

	require.Equal(t, int32(3), resolver.calls.Load())
	require.Equal(t, int32(3), delivered.Load())
}

func TestPollController_StopDiscardsInFlightTick(t *testing.T) {
	resolver := &scriptedResolver{
		blockFor: 50 * time.Millisecond,
		resolve: func(int32) (Resolution, error) {
			return Resolution{Match: match.UnifiedMatch{Status: "Live"}}, nil
		},
	}
	controller, err := NewPollController(resolver, 4, testPollConfig(), logging.NewNop())
	require.NoError(t, err)
	defer controller.Close()

	var delivered atomic.Int32
	session := controller.Start(context.Background(), "L1", "M1", func(Resolution) {
		delivered.Add(1)
	})

	// Stop while the first tick is still resolving.
	time.Sleep(10 * time.Millisecond)
	session.Stop()

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	// Give the superseded tick time to complete in the pool.
	time.Sleep(80 * time.Millisecond)

	require.Zero(t, delivered.Load(), "a tick superseded by Stop must never reach the sink")
}

func TestPollController_ContextCancellationStopsLoop(t *testing.T) {
	resolver := &scriptedResolver{
		resolve: func(int32) (Resolution, error) {
			return Resolution{Match: match.UnifiedMatch{Status: "Live"}}, nil
		},
	}
	controller, err := NewPollController(resolver, 4, testPollConfig(), logging.NewNop())
	require.NoError(t, err)
	defer controller.Close()

	ctx, cancel := context.WithCancel(context.Background())
	session := controller.Start(ctx, "L1", "M1", func(Resolution) {})

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit on context cancellation")
	}
}

func TestPollController_KeepsPollingThroughTransientFailures(t *testing.T) {
	resolver := &scriptedResolver{
		resolve: func(call int32) (Resolution, error) {
			if call == 1 {
				return Resolution{}, context.DeadlineExceeded
			}
			return Resolution{Match: match.UnifiedMatch{Status: "Slutspelad"}}, nil
		},
	}
	controller, err := NewPollController(resolver, 4, testPollConfig(), logging.NewNop())
	require.NoError(t, err)
	defer controller.Close()

	var delivered atomic.Int32
	session := controller.Start(context.Background(), "L1", "M1", func(Resolution) {
		delivered.Add(1)
	})

	select {
	case <-session.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not recover from transient failure")
	}

	require.Equal(t, int32(1), delivered.Load())
	require.GreaterOrEqual(t, resolver.calls.Load(), int32(2))
}
