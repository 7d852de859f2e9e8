package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/platform/logging"
)

// MatchResolver is the slice of MatchService the poll loop needs.
type MatchResolver interface {
	ResolveByKey(ctx context.Context, leagueID, matchID string) (Resolution, error)
}

// PollSink receives each fresh resolution. It is never called with a stale
// result: once a newer generation is active, results from older ticks are
// discarded before they reach the sink.
type PollSink func(Resolution)

type PollConfig struct {
	// LiveInterval is the cadence while the match is live.
	LiveInterval time.Duration
	// DefaultInterval is the cadence for upcoming and unclassifiable
	// matches. Finished matches stop polling entirely.
	DefaultInterval time.Duration
}

func (c PollConfig) normalized() PollConfig {
	if c.LiveInterval <= 0 {
		c.LiveInterval = 15 * time.Second
	}
	if c.DefaultInterval <= 0 {
		c.DefaultInterval = 2 * time.Minute
	}
	return c
}

// intervalFor maps a lifecycle category to the next poll delay. A zero
// duration means polling should stop.
func (c PollConfig) intervalFor(category match.Category) time.Duration {
	switch category {
	case match.CategoryLive:
		return c.LiveInterval
	case match.CategoryFinished:
		return 0
	default:
		return c.DefaultInterval
	}
}

// PollController runs one polling loop per active match view. Tick work for
// all sessions shares one bounded worker pool so a burst of live matches
// cannot stampede the resolver.
type PollController struct {
	resolver MatchResolver
	pool     *ants.Pool
	cfg      PollConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewPollController(resolver MatchResolver, poolSize int, cfg PollConfig, logger *logging.Logger) (*PollController, error) {
	if poolSize <= 0 {
		poolSize = 32
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create poll worker pool: %w", err)
	}

	return &PollController{
		resolver: resolver,
		pool:     pool,
		cfg:      cfg.normalized(),
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Close releases the shared worker pool. Sessions must be stopped first.
func (c *PollController) Close() {
	c.pool.Release()
}

// PollSession is the ephemeral per-view polling state: idle -> polling ->
// idle, stopped on view teardown or context cancellation.
type PollSession struct {
	cancel     context.CancelFunc
	generation atomic.Uint64
	done       chan struct{}
	stopOnce   sync.Once
}

// Stop halts the session immediately. In-flight ticks issued before the
// stop can no longer reach the sink.
func (s *PollSession) Stop() {
	s.stopOnce.Do(func() {
		// Bumping the generation invalidates every tick already in flight.
		s.generation.Add(1)
		s.cancel()
	})
}

// Done is closed once the polling loop has exited.
func (s *PollSession) Done() <-chan struct{} {
	return s.done
}

// Start begins polling the given match and delivering fresh resolutions to
// sink. The first tick fires immediately; subsequent cadence follows the
// lifecycle category observed on the previous tick, and the loop ends on
// its own once the match is finished.
func (c *PollController) Start(ctx context.Context, leagueID, matchID string, sink PollSink) *PollSession {
	ctx, cancel := context.WithCancel(ctx)
	session := &PollSession{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go c.run(ctx, session, leagueID, matchID, sink)

	return session
}

func (c *PollController) run(ctx context.Context, session *PollSession, leagueID, matchID string, sink PollSink) {
	defer close(session.done)

	delay := time.Duration(0)
	for {
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return
		}

		category, ok := c.tick(ctx, session, leagueID, matchID, sink)
		if !ok {
			return
		}

		delay = c.cfg.intervalFor(category)
		if delay == 0 {
			c.logger.DebugContext(ctx, "match finished, polling stopped",
				"league_id", leagueID, "match_id", matchID)
			return
		}
	}
}

// tick runs one resolution on the shared pool and applies the result unless
// a newer generation superseded it meanwhile.
func (c *PollController) tick(ctx context.Context, session *PollSession, leagueID, matchID string, sink PollSink) (match.Category, bool) {
	generation := session.generation.Add(1)

	type tickResult struct {
		resolution Resolution
		err        error
	}
	resultCh := make(chan tickResult, 1)

	submitErr := c.pool.Submit(func() {
		resolution, err := c.resolver.ResolveByKey(ctx, leagueID, matchID)
		resultCh <- tickResult{resolution: resolution, err: err}
	})
	if submitErr != nil {
		c.logger.WarnContext(ctx, "poll tick submit failed", "match_id", matchID, "error", submitErr)
		return match.CategoryOther, ctx.Err() == nil
	}

	var result tickResult
	select {
	case <-ctx.Done():
		return match.CategoryOther, false
	case result = <-resultCh:
	}

	// A Stop or a newer tick invalidates this one; its result must not
	// overwrite fresher state.
	if session.generation.Load() != generation {
		return match.CategoryOther, false
	}

	if result.err != nil {
		c.logger.WarnContext(ctx, "poll tick failed", "league_id", leagueID, "match_id", matchID, "error", result.err)
		// Transient failure: keep polling at the default cadence.
		return match.CategoryOther, true
	}

	sink(result.resolution)
	return result.resolution.Match.Lifecycle(c.now()), true
}
