package usecase

import (
	"context"
	"time"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
)

// CMSMatchRecord is the normalized content-managed fixture. When
// IsCustomGame is set the record is authoritative and complete on its own
// and no provider lookup may happen.
type CMSMatchRecord struct {
	ID              string
	LegacyID        int64
	Slug            string
	ExternalMatchID string
	LeagueID        string
	LeagueName      string
	Season          string
	KickoffAt       time.Time
	ModifiedAt      time.Time
	Status          string
	Arena           string
	HomeTeamID      string
	HomeTeamName    string
	AwayTeamID      string
	AwayTeamName    string
	HomeScore       *int
	AwayScore       *int
	TicketURL       string
	SoldTickets     *int
	CTAText         string
	CTALink         string
	IsCustomGame    bool
}

// ProviderMatchRecord is the normalized record from the sports-data
// provider, authoritative for score, status, season and arena when the CMS
// record is not a custom game.
type ProviderMatchRecord struct {
	ExternalID string
	LeagueID   string
	LeagueName string
	Season     string
	Status     string
	KickoffAt  time.Time
	Arena      string
	HomeTeam   match.TeamRef
	AwayTeam   match.TeamRef
	HomeScore  *int
	AwayScore  *int
	Referees   []string
}

// LiveStats carries in-play aggregates for one match.
type LiveStats struct {
	HomePossession int
	AwayPossession int
	HomeShots      int
	AwayShots      int
	HomeCorners    int
	AwayCorners    int
	HomeFouls      int
	AwayFouls      int
}

// TeamStats is one team's season aggregates.
type TeamStats struct {
	TeamID       string
	TeamName     string
	Played       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// NewsItem is one CMS-authored news entry for a team.
type NewsItem struct {
	ID          string
	Title       string
	Summary     string
	URL         string
	PublishedAt time.Time
}

// CMSGateway reads content-managed data. Absence is reported through the
// found flag; errors mean the call itself failed.
type CMSGateway interface {
	GetMatch(ctx context.Context, identifier string) (CMSMatchRecord, bool, error)
	GetTeamNews(ctx context.Context, teamID string, limit int) ([]NewsItem, error)
}

// SportDataGateway reads from the external sports-data provider.
type SportDataGateway interface {
	GetMatch(ctx context.Context, leagueID, matchID string) (ProviderMatchRecord, bool, error)
	GetLineup(ctx context.Context, leagueID, season, externalMatchID string) (lineup.Lineup, bool, error)
	GetLiveStats(ctx context.Context, leagueID, matchID string) (LiveStats, bool, error)
	GetEvents(ctx context.Context, leagueID, season, matchID string) ([]timeline.Event, error)
	GetGoalDetails(ctx context.Context, leagueID, season, matchID string) ([]timeline.GoalDetail, error)
	GetLiveReport(ctx context.Context, leagueID, season, matchID string) ([]timeline.ReportEntry, error)
	GetStandings(ctx context.Context, leagueID, season string) ([]standings.Row, error)
	GetSquad(ctx context.Context, teamID string) ([]lineup.Player, error)
	GetTeamStats(ctx context.Context, leagueID, season, teamID string) (TeamStats, bool, error)
}

// MatchArchive persists finished resolutions so historical results survive
// provider outages and restarts.
type MatchArchive interface {
	Upsert(ctx context.Context, m match.UnifiedMatch) error
	GetByKey(ctx context.Context, leagueID, matchID string) (match.UnifiedMatch, bool, error)
}
