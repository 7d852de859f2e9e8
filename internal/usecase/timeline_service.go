package usecase

import (
	"context"
	"fmt"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
	"github.com/skanelive/matchcenter/internal/platform/logging"
)

// TimelineService builds the merged, player-enriched live timeline for a
// resolved match. The generic event feed is the backbone; the goal-detail
// feed and the lineups only enrich it, so their failures degrade instead of
// failing the call.
type TimelineService struct {
	provider SportDataGateway
	logger   *logging.Logger
}

func NewTimelineService(provider SportDataGateway, logger *logging.Logger) *TimelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimelineService{provider: provider, logger: logger}
}

// ForMatch returns the match timeline most-recent-first. Only the generic
// event feed is load-bearing; goal details and lineups degrade silently to
// unenriched events and placeholder players.
func (s *TimelineService) ForMatch(ctx context.Context, m match.UnifiedMatch) ([]timeline.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.ForMatch")
	defer span.End()

	if m.ExternalMatchID == "" {
		// Custom games carry no provider feeds.
		return nil, nil
	}

	events, err := s.provider.GetEvents(ctx, m.LeagueID, m.Season, m.ExternalMatchID)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}

	goals, err := s.provider.GetGoalDetails(ctx, m.LeagueID, m.Season, m.ExternalMatchID)
	if err != nil {
		s.logger.WarnContext(ctx, "goal detail fetch failed, timeline served without details",
			"match_id", m.ExternalMatchID, "error", err)
		goals = nil
	}

	merged := timeline.Merge(events, goals)
	timeline.Enrich(merged, s.fetchSheets(ctx, m))

	return merged, nil
}

// LiveReport returns the narrative feed for a match, independent of the
// event/goal-detail merge.
func (s *TimelineService) LiveReport(ctx context.Context, m match.UnifiedMatch) ([]timeline.ReportEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.LiveReport")
	defer span.End()

	if m.ExternalMatchID == "" {
		return nil, nil
	}

	entries, err := s.provider.GetLiveReport(ctx, m.LeagueID, m.Season, m.ExternalMatchID)
	if err != nil {
		return nil, fmt.Errorf("fetch live report: %w", err)
	}
	return entries, nil
}

func (s *TimelineService) fetchSheets(ctx context.Context, m match.UnifiedMatch) *lineup.Lineup {
	sheets, found, err := s.provider.GetLineup(ctx, m.LeagueID, m.Season, m.ExternalMatchID)
	if err != nil {
		s.logger.WarnContext(ctx, "lineup fetch failed, timeline players unresolved",
			"match_id", m.ExternalMatchID, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return &sheets
}
