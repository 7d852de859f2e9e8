package sportdata

import (
	"context"
	"fmt"
	"net/url"

	crerr "github.com/cockroachdb/errors"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
	"github.com/skanelive/matchcenter/internal/usecase"
)

// GetMatch fetches one match record. Absence is reported through the found
// flag, not as an error.
func (c *Client) GetMatch(ctx context.Context, leagueID, matchID string) (usecase.ProviderMatchRecord, bool, error) {
	if leagueID == "" || matchID == "" {
		return usecase.ProviderMatchRecord{}, false, fmt.Errorf("league id and match id are required")
	}

	var envelope struct {
		Data matchPayload `json:"data"`
	}
	path := "/v1/leagues/" + url.PathEscape(leagueID) + "/matches/" + url.PathEscape(matchID)
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return usecase.ProviderMatchRecord{}, false, nil
	}
	if err != nil {
		return usecase.ProviderMatchRecord{}, false, fmt.Errorf("fetch match league=%s match=%s: %w", leagueID, matchID, err)
	}
	return mapMatchPayload(envelope.Data), true, nil
}

// GetLineup fetches both team sheets for a match.
func (c *Client) GetLineup(ctx context.Context, leagueID, season, externalMatchID string) (lineup.Lineup, bool, error) {
	if leagueID == "" || season == "" || externalMatchID == "" {
		return lineup.Lineup{}, false, fmt.Errorf("league id, season and match id are required")
	}

	var envelope struct {
		Data lineupPayload `json:"data"`
	}
	path := matchScopedPath(leagueID, season, externalMatchID, "lineup")
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return lineup.Lineup{}, false, nil
	}
	if err != nil {
		return lineup.Lineup{}, false, fmt.Errorf("fetch lineup match=%s: %w", externalMatchID, err)
	}
	return mapLineupPayload(envelope.Data), true, nil
}

// GetLiveStats fetches the in-play aggregate statistics for a match.
func (c *Client) GetLiveStats(ctx context.Context, leagueID, matchID string) (usecase.LiveStats, bool, error) {
	if leagueID == "" || matchID == "" {
		return usecase.LiveStats{}, false, fmt.Errorf("league id and match id are required")
	}

	var envelope struct {
		Data liveStatsPayload `json:"data"`
	}
	path := "/v1/leagues/" + url.PathEscape(leagueID) + "/matches/" + url.PathEscape(matchID) + "/statistics/live"
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return usecase.LiveStats{}, false, nil
	}
	if err != nil {
		return usecase.LiveStats{}, false, fmt.Errorf("fetch live stats match=%s: %w", matchID, err)
	}
	return mapLiveStatsPayload(envelope.Data), true, nil
}

// GetEvents fetches the chronological event feed for a match. A missing
// feed is an empty slice, not an error.
func (c *Client) GetEvents(ctx context.Context, leagueID, season, matchID string) ([]timeline.Event, error) {
	var envelope struct {
		Data []eventPayload `json:"data"`
	}
	path := matchScopedPath(leagueID, season, matchID, "events")
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch events match=%s: %w", matchID, err)
	}

	events := make([]timeline.Event, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		events = append(events, mapEventPayload(payload))
	}
	return events, nil
}

// GetGoalDetails fetches the goal-detail feed that complements the event
// feed. The two feeds only share timestamps.
func (c *Client) GetGoalDetails(ctx context.Context, leagueID, season, matchID string) ([]timeline.GoalDetail, error) {
	var envelope struct {
		Data []goalPayload `json:"data"`
	}
	path := matchScopedPath(leagueID, season, matchID, "goals")
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch goal details match=%s: %w", matchID, err)
	}

	goals := make([]timeline.GoalDetail, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		goals = append(goals, mapGoalPayload(payload))
	}
	return goals, nil
}

// GetLiveReport fetches the narrative live-report entries for a match.
func (c *Client) GetLiveReport(ctx context.Context, leagueID, season, matchID string) ([]timeline.ReportEntry, error) {
	var envelope struct {
		Data []reportPayload `json:"data"`
	}
	path := matchScopedPath(leagueID, season, matchID, "report")
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch live report match=%s: %w", matchID, err)
	}

	entries := make([]timeline.ReportEntry, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		entries = append(entries, mapReportPayload(payload))
	}
	return entries, nil
}

// GetStandings fetches the league table for one season. Rows missing a team
// id or name are dropped here so no consumer sees them.
func (c *Client) GetStandings(ctx context.Context, leagueID, season string) ([]standings.Row, error) {
	if leagueID == "" || season == "" {
		return nil, fmt.Errorf("league id and season are required")
	}

	var envelope struct {
		Data []standingsPayload `json:"data"`
	}
	path := "/v1/leagues/" + url.PathEscape(leagueID) + "/seasons/" + url.PathEscape(season) + "/standings"
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch standings league=%s season=%s: %w", leagueID, season, err)
	}

	rows := make([]standings.Row, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		rows = append(rows, mapStandingsPayload(payload))
	}
	return standings.FilterValid(rows), nil
}

// GetSquad fetches one team's full squad list.
func (c *Client) GetSquad(ctx context.Context, teamID string) ([]lineup.Player, error) {
	if teamID == "" {
		return nil, fmt.Errorf("team id is required")
	}

	var envelope struct {
		Data []playerPayload `json:"data"`
	}
	err := c.doJSON(ctx, "/v1/teams/"+url.PathEscape(teamID)+"/squad", nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch squad team=%s: %w", teamID, err)
	}

	players := make([]lineup.Player, 0, len(envelope.Data))
	for _, payload := range envelope.Data {
		players = append(players, mapPlayerPayload(payload))
	}
	return players, nil
}

// GetTeamStats fetches one team's season aggregates.
func (c *Client) GetTeamStats(ctx context.Context, leagueID, season, teamID string) (usecase.TeamStats, bool, error) {
	if leagueID == "" || season == "" || teamID == "" {
		return usecase.TeamStats{}, false, fmt.Errorf("league id, season and team id are required")
	}

	var envelope struct {
		Data teamStatsPayload `json:"data"`
	}
	path := "/v1/leagues/" + url.PathEscape(leagueID) + "/seasons/" + url.PathEscape(season) +
		"/teams/" + url.PathEscape(teamID) + "/statistics"
	err := c.doJSON(ctx, path, nil, &envelope)
	if crerr.Is(err, errProviderNotFound) {
		return usecase.TeamStats{}, false, nil
	}
	if err != nil {
		return usecase.TeamStats{}, false, fmt.Errorf("fetch team stats team=%s: %w", teamID, err)
	}
	return mapTeamStatsPayload(envelope.Data), true, nil
}

func matchScopedPath(leagueID, season, matchID, suffix string) string {
	return "/v1/leagues/" + url.PathEscape(leagueID) +
		"/seasons/" + url.PathEscape(season) +
		"/matches/" + url.PathEscape(matchID) + "/" + suffix
}
