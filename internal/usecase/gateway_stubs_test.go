package usecase

import (
	"context"
	"sync/atomic"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
)

// stubCMS and stubProvider let each test script exactly the upstream
// behavior it needs while counting calls for the no-duplicate-call
// assertions.

type stubCMS struct {
	getMatch    func(ctx context.Context, identifier string) (CMSMatchRecord, bool, error)
	getTeamNews func(ctx context.Context, teamID string, limit int) ([]NewsItem, error)

	matchCalls atomic.Int32
}

func (s *stubCMS) GetMatch(ctx context.Context, identifier string) (CMSMatchRecord, bool, error) {
	s.matchCalls.Add(1)
	if s.getMatch == nil {
		return CMSMatchRecord{}, false, nil
	}
	return s.getMatch(ctx, identifier)
}

func (s *stubCMS) GetTeamNews(ctx context.Context, teamID string, limit int) ([]NewsItem, error) {
	if s.getTeamNews == nil {
		return nil, nil
	}
	return s.getTeamNews(ctx, teamID, limit)
}

type stubProvider struct {
	getMatch      func(ctx context.Context, leagueID, matchID string) (ProviderMatchRecord, bool, error)
	getLineup     func(ctx context.Context, leagueID, season, externalMatchID string) (lineup.Lineup, bool, error)
	getLiveStats  func(ctx context.Context, leagueID, matchID string) (LiveStats, bool, error)
	getEvents     func(ctx context.Context, leagueID, season, matchID string) ([]timeline.Event, error)
	getGoals      func(ctx context.Context, leagueID, season, matchID string) ([]timeline.GoalDetail, error)
	getLiveReport func(ctx context.Context, leagueID, season, matchID string) ([]timeline.ReportEntry, error)
	getStandings  func(ctx context.Context, leagueID, season string) ([]standings.Row, error)
	getSquad      func(ctx context.Context, teamID string) ([]lineup.Player, error)
	getTeamStats  func(ctx context.Context, leagueID, season, teamID string) (TeamStats, bool, error)

	matchCalls  atomic.Int32
	lineupCalls atomic.Int32
}

func (s *stubProvider) GetMatch(ctx context.Context, leagueID, matchID string) (ProviderMatchRecord, bool, error) {
	s.matchCalls.Add(1)
	if s.getMatch == nil {
		return ProviderMatchRecord{}, false, nil
	}
	return s.getMatch(ctx, leagueID, matchID)
}

func (s *stubProvider) GetLineup(ctx context.Context, leagueID, season, externalMatchID string) (lineup.Lineup, bool, error) {
	s.lineupCalls.Add(1)
	if s.getLineup == nil {
		return lineup.Lineup{}, false, nil
	}
	return s.getLineup(ctx, leagueID, season, externalMatchID)
}

func (s *stubProvider) GetLiveStats(ctx context.Context, leagueID, matchID string) (LiveStats, bool, error) {
	if s.getLiveStats == nil {
		return LiveStats{}, false, nil
	}
	return s.getLiveStats(ctx, leagueID, matchID)
}

func (s *stubProvider) GetEvents(ctx context.Context, leagueID, season, matchID string) ([]timeline.Event, error) {
	if s.getEvents == nil {
		return nil, nil
	}
	return s.getEvents(ctx, leagueID, season, matchID)
}

func (s *stubProvider) GetGoalDetails(ctx context.Context, leagueID, season, matchID string) ([]timeline.GoalDetail, error) {
	if s.getGoals == nil {
		return nil, nil
	}
	return s.getGoals(ctx, leagueID, season, matchID)
}

func (s *stubProvider) GetLiveReport(ctx context.Context, leagueID, season, matchID string) ([]timeline.ReportEntry, error) {
	if s.getLiveReport == nil {
		return nil, nil
	}
	return s.getLiveReport(ctx, leagueID, season, matchID)
}

func (s *stubProvider) GetStandings(ctx context.Context, leagueID, season string) ([]standings.Row, error) {
	if s.getStandings == nil {
		return nil, nil
	}
	return s.getStandings(ctx, leagueID, season)
}

func (s *stubProvider) GetSquad(ctx context.Context, teamID string) ([]lineup.Player, error) {
	if s.getSquad == nil {
		return nil, nil
	}
	return s.getSquad(ctx, teamID)
}

func (s *stubProvider) GetTeamStats(ctx context.Context, leagueID, season, teamID string) (TeamStats, bool, error) {
	if s.getTeamStats == nil {
		return TeamStats{}, false, nil
	}
	return s.getTeamStats(ctx, leagueID, season, teamID)
}
