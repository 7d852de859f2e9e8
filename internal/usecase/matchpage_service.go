package usecase

import (
	"context"

	"github.com/sourcegraph/conc"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
	"github.com/skanelive/matchcenter/internal/platform/logging"
)

// MatchPage aggregates everything one match view needs. Every field except
// Resolution is best effort: a failed branch leaves its section empty.
type MatchPage struct {
	Resolution Resolution
	Timeline   []timeline.Event
	Report     []timeline.ReportEntry
	Standings  []standings.Row
	HomeSquad  []lineup.Player
	AwaySquad  []lineup.Player
	HomeStats  *TeamStats
	AwayStats  *TeamStats
	LiveStats  *LiveStats
	News       []NewsItem
}

const teamNewsLimit = 5

// MatchPageService fans out the independent page sections in parallel and
// joins them. Only the match resolution itself can fail the call; each
// other branch's failure is isolated to its own section.
type MatchPageService struct {
	resolver *MatchService
	timeline *TimelineService
	cms      CMSGateway
	provider SportDataGateway
	logger   *logging.Logger
}

func NewMatchPageService(
	resolver *MatchService,
	timelineSvc *TimelineService,
	cms CMSGateway,
	provider SportDataGateway,
	logger *logging.Logger,
) *MatchPageService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchPageService{
		resolver: resolver,
		timeline: timelineSvc,
		cms:      cms,
		provider: provider,
		logger:   logger,
	}
}

func (s *MatchPageService) Get(ctx context.Context, leagueID, matchID string) (MatchPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchPageService.Get")
	defer span.End()

	resolution, err := s.resolver.ResolveByKey(ctx, leagueID, matchID)
	if err != nil {
		return MatchPage{}, err
	}

	page := MatchPage{Resolution: resolution}
	m := resolution.Match

	var wg conc.WaitGroup

	wg.Go(func() {
		events, branchErr := s.timeline.ForMatch(ctx, m)
		if branchErr != nil {
			s.logger.WarnContext(ctx, "timeline branch failed", "match_id", m.ID, "error", branchErr)
			return
		}
		page.Timeline = events
	})

	wg.Go(func() {
		entries, branchErr := s.timeline.LiveReport(ctx, m)
		if branchErr != nil {
			s.logger.WarnContext(ctx, "live report branch failed", "match_id", m.ID, "error", branchErr)
			return
		}
		page.Report = entries
	})

	wg.Go(func() {
		rows, branchErr := s.provider.GetStandings(ctx, m.LeagueID, m.Season)
		if branchErr != nil {
			s.logger.WarnContext(ctx, "standings branch failed", "league_id", m.LeagueID, "error", branchErr)
			return
		}
		page.Standings = standings.FilterValid(rows)
	})

	wg.Go(func() {
		page.HomeSquad = s.fetchSquad(ctx, m.HomeTeam.ID)
	})

	wg.Go(func() {
		page.AwaySquad = s.fetchSquad(ctx, m.AwayTeam.ID)
	})

	wg.Go(func() {
		page.HomeStats = s.fetchTeamStats(ctx, m.LeagueID, m.Season, m.HomeTeam.ID)
	})

	wg.Go(func() {
		page.AwayStats = s.fetchTeamStats(ctx, m.LeagueID, m.Season, m.AwayTeam.ID)
	})

	wg.Go(func() {
		stats, found, branchErr := s.provider.GetLiveStats(ctx, m.LeagueID, m.ExternalMatchID)
		if branchErr != nil {
			s.logger.WarnContext(ctx, "live stats branch failed", "match_id", m.ID, "error", branchErr)
			return
		}
		if found {
			page.LiveStats = &stats
		}
	})

	wg.Go(func() {
		items, branchErr := s.cms.GetTeamNews(ctx, m.HomeTeam.ID, teamNewsLimit)
		if branchErr != nil {
			s.logger.WarnContext(ctx, "team news branch failed", "team_id", m.HomeTeam.ID, "error", branchErr)
			return
		}
		page.News = filterValidNews(items)
	})

	wg.Wait()

	return page, nil
}

func (s *MatchPageService) fetchSquad(ctx context.Context, teamID string) []lineup.Player {
	if teamID == "" {
		return nil
	}
	players, err := s.provider.GetSquad(ctx, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "squad branch failed", "team_id", teamID, "error", err)
		return nil
	}

	// Malformed entries are filtered out, valid entries still returned.
	valid := make([]lineup.Player, 0, len(players))
	for _, p := range players {
		if p.ID == "" || p.Name == "" {
			continue
		}
		valid = append(valid, p)
	}
	return valid
}

func (s *MatchPageService) fetchTeamStats(ctx context.Context, leagueID, season, teamID string) *TeamStats {
	if teamID == "" {
		return nil
	}
	stats, found, err := s.provider.GetTeamStats(ctx, leagueID, season, teamID)
	if err != nil {
		s.logger.WarnContext(ctx, "team stats branch failed", "team_id", teamID, "error", err)
		return nil
	}
	if !found {
		return nil
	}
	return &stats
}

func filterValidNews(items []NewsItem) []NewsItem {
	valid := make([]NewsItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.Title == "" {
			continue
		}
		valid = append(valid, item)
	}
	return valid
}
