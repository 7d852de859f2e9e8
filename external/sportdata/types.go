package sportdata

import (
	"strings"
	"time"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
	"github.com/skanelive/matchcenter/internal/usecase"
)

type teamRefPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type matchPayload struct {
	MatchID    string         `json:"matchId"`
	LeagueID   string         `json:"leagueId"`
	LeagueName string         `json:"leagueName"`
	Season     string         `json:"season"`
	Status     string         `json:"status"`
	KickoffAt  string         `json:"kickoffAt"`
	Arena      string         `json:"arena"`
	HomeTeam   teamRefPayload `json:"homeTeam"`
	AwayTeam   teamRefPayload `json:"awayTeam"`
	HomeScore  *int           `json:"homeScore"`
	AwayScore  *int           `json:"awayScore"`
	Referees   []string       `json:"referees"`
}

type playerPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"shirtNumber"`
	Position string `json:"position"`
	Captain  bool   `json:"captain"`
	Starting bool   `json:"starting"`
}

type teamSheetPayload struct {
	TeamID  string          `json:"teamId"`
	Name    string          `json:"teamName"`
	Coach   string          `json:"coach"`
	Players []playerPayload `json:"players"`
}

type lineupPayload struct {
	Home teamSheetPayload `json:"home"`
	Away teamSheetPayload `json:"away"`
}

type liveStatsPayload struct {
	HomePossession int `json:"homePossession"`
	AwayPossession int `json:"awayPossession"`
	HomeShots      int `json:"homeShots"`
	AwayShots      int `json:"awayShots"`
	HomeCorners    int `json:"homeCorners"`
	AwayCorners    int `json:"awayCorners"`
	HomeFouls      int `json:"homeFouls"`
	AwayFouls      int `json:"awayFouls"`
}

type eventPayload struct {
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Minute      *int   `json:"minute"`
	Second      *int   `json:"second"`
	HomeScore   *int   `json:"homeScore"`
	AwayScore   *int   `json:"awayScore"`
	Description string `json:"description"`
}

type goalPayload struct {
	Timestamp    string `json:"timestamp"`
	ScorerID     string `json:"scorerId"`
	AssistID     string `json:"assistId"`
	GoalType     string `json:"goalType"`
	ShotPosition string `json:"shotPosition"`
	GoalPosition string `json:"goalPosition"`
}

type reportPayload struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Body     string `json:"body"`
	Minute   *int   `json:"minute"`
	VideoRef string `json:"videoRef"`
}

type standingsPayload struct {
	TeamID       string `json:"teamId"`
	TeamName     string `json:"teamName"`
	Position     int    `json:"position"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

type teamStatsPayload struct {
	TeamID       string `json:"teamId"`
	TeamName     string `json:"teamName"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
}

func mapMatchPayload(payload matchPayload) usecase.ProviderMatchRecord {
	return usecase.ProviderMatchRecord{
		ExternalID: payload.MatchID,
		LeagueID:   payload.LeagueID,
		LeagueName: payload.LeagueName,
		Season:     payload.Season,
		Status:     payload.Status,
		KickoffAt:  parseProviderTime(payload.KickoffAt),
		Arena:      payload.Arena,
		HomeTeam:   match.TeamRef{ID: payload.HomeTeam.ID, Name: payload.HomeTeam.Name},
		AwayTeam:   match.TeamRef{ID: payload.AwayTeam.ID, Name: payload.AwayTeam.Name},
		HomeScore:  payload.HomeScore,
		AwayScore:  payload.AwayScore,
		Referees:   payload.Referees,
	}
}

func mapLineupPayload(payload lineupPayload) lineup.Lineup {
	return lineup.Lineup{
		Home: mapTeamSheetPayload(payload.Home),
		Away: mapTeamSheetPayload(payload.Away),
	}
}

func mapTeamSheetPayload(payload teamSheetPayload) lineup.TeamSheet {
	players := make([]lineup.Player, 0, len(payload.Players))
	for _, p := range payload.Players {
		players = append(players, mapPlayerPayload(p))
	}
	return lineup.TeamSheet{
		TeamID:  payload.TeamID,
		Name:    payload.Name,
		Coach:   payload.Coach,
		Players: players,
	}
}

func mapPlayerPayload(payload playerPayload) lineup.Player {
	return lineup.Player{
		ID:       payload.ID,
		Name:     payload.Name,
		Number:   payload.Number,
		Position: payload.Position,
		Captain:  payload.Captain,
		Starting: payload.Starting,
	}
}

func mapLiveStatsPayload(payload liveStatsPayload) usecase.LiveStats {
	return usecase.LiveStats(payload)
}

func mapEventPayload(payload eventPayload) timeline.Event {
	return timeline.Event{
		Timestamp:   payload.Timestamp,
		Type:        payload.Type,
		Minute:      payload.Minute,
		Second:      payload.Second,
		HomeScore:   payload.HomeScore,
		AwayScore:   payload.AwayScore,
		Description: payload.Description,
	}
}

func mapGoalPayload(payload goalPayload) timeline.GoalDetail {
	return timeline.GoalDetail{
		Timestamp:    payload.Timestamp,
		ScorerID:     payload.ScorerID,
		AssistID:     payload.AssistID,
		GoalType:     payload.GoalType,
		ShotPosition: payload.ShotPosition,
		GoalPosition: payload.GoalPosition,
	}
}

func mapReportPayload(payload reportPayload) timeline.ReportEntry {
	return timeline.ReportEntry{
		ID:       payload.ID,
		Headline: payload.Headline,
		Body:     payload.Body,
		Minute:   payload.Minute,
		VideoRef: payload.VideoRef,
	}
}

func mapStandingsPayload(payload standingsPayload) standings.Row {
	return standings.Row{
		TeamID:       payload.TeamID,
		TeamName:     payload.TeamName,
		Position:     payload.Position,
		Played:       payload.Played,
		Won:          payload.Won,
		Drawn:        payload.Drawn,
		Lost:         payload.Lost,
		GoalsFor:     payload.GoalsFor,
		GoalsAgainst: payload.GoalsAgainst,
		Points:       payload.Points,
	}
}

func mapTeamStatsPayload(payload teamStatsPayload) usecase.TeamStats {
	return usecase.TeamStats(payload)
}

func parseProviderTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return parsed
	}
	return time.Time{}
}
