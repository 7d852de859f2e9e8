package httpapi

import (
	"time"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
	"github.com/skanelive/matchcenter/internal/usecase"
)

type teamRefDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type overridesDTO struct {
	TicketURL   string `json:"ticketUrl,omitempty"`
	SoldTickets *int   `json:"soldTickets,omitempty"`
	CTAText     string `json:"ctaText,omitempty"`
	CTALink     string `json:"ctaLink,omitempty"`
}

type matchDTO struct {
	ID              string        `json:"id"`
	LegacyID        int64         `json:"legacyId,omitempty"`
	ExternalMatchID string        `json:"externalMatchId,omitempty"`
	LeagueID        string        `json:"leagueId"`
	LeagueName      string        `json:"leagueName,omitempty"`
	Season          string        `json:"season,omitempty"`
	Slug            string        `json:"slug,omitempty"`
	KickoffAt       string        `json:"kickoffAt,omitempty"`
	ModifiedAt      string        `json:"modifiedAt,omitempty"`
	Status          string        `json:"status"`
	Lifecycle       string        `json:"lifecycle"`
	Arena           string        `json:"arena,omitempty"`
	HomeTeam        teamRefDTO    `json:"homeTeam"`
	AwayTeam        teamRefDTO    `json:"awayTeam"`
	HomeScore       *int          `json:"homeScore,omitempty"`
	AwayScore       *int          `json:"awayScore,omitempty"`
	Referees        []string      `json:"referees,omitempty"`
	IsCustomGame    bool          `json:"isCustomGame"`
	Overrides       *overridesDTO `json:"overrides,omitempty"`
}

type playerDTO struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Number   int    `json:"number,omitempty"`
	Position string `json:"position,omitempty"`
	Captain  bool   `json:"captain,omitempty"`
	Starting bool   `json:"starting,omitempty"`
}

type teamSheetDTO struct {
	TeamID  string      `json:"teamId"`
	Name    string      `json:"name"`
	Coach   string      `json:"coach,omitempty"`
	Players []playerDTO `json:"players"`
}

type lineupDTO struct {
	Home teamSheetDTO `json:"home"`
	Away teamSheetDTO `json:"away"`
}

type goalDetailDTO struct {
	GoalType     string    `json:"goalType,omitempty"`
	ShotPosition string    `json:"shotPosition,omitempty"`
	GoalPosition string    `json:"goalPosition,omitempty"`
	Scorer       playerDTO `json:"scorer"`
	Assister     playerDTO `json:"assister"`
}

type eventDTO struct {
	Timestamp   string         `json:"timestamp"`
	Type        string         `json:"type"`
	Clock       string         `json:"clock"`
	Minute      *int           `json:"minute,omitempty"`
	Second      *int           `json:"second,omitempty"`
	HomeScore   *int           `json:"homeScore,omitempty"`
	AwayScore   *int           `json:"awayScore,omitempty"`
	Description string         `json:"description,omitempty"`
	Goal        *goalDetailDTO `json:"goal,omitempty"`
}

type reportEntryDTO struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Body     string `json:"body,omitempty"`
	Minute   *int   `json:"minute,omitempty"`
	VideoRef string `json:"videoRef,omitempty"`
}

type standingsRowDTO struct {
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

type teamStatsDTO struct {
	TeamID       string `json:"teamId"`
	TeamName     string `json:"teamName"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
}

type liveStatsDTO struct {
	HomePossession int `json:"homePossession"`
	AwayPossession int `json:"awayPossession"`
	HomeShots      int `json:"homeShots"`
	AwayShots      int `json:"awayShots"`
	HomeCorners    int `json:"homeCorners"`
	AwayCorners    int `json:"awayCorners"`
	HomeFouls      int `json:"homeFouls"`
	AwayFouls      int `json:"awayFouls"`
}

type newsItemDTO struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

type resolutionDTO struct {
	Match  matchDTO   `json:"match"`
	Lineup *lineupDTO `json:"lineup,omitempty"`
}

type matchPageDTO struct {
	Match     matchDTO          `json:"match"`
	Lineup    *lineupDTO        `json:"lineup,omitempty"`
	Timeline  []eventDTO        `json:"timeline"`
	Report    []reportEntryDTO  `json:"report"`
	Standings []standingsRowDTO `json:"standings"`
	HomeSquad []playerDTO       `json:"homeSquad"`
	AwaySquad []playerDTO       `json:"awaySquad"`
	HomeStats *teamStatsDTO     `json:"homeStats,omitempty"`
	AwayStats *teamStatsDTO     `json:"awayStats,omitempty"`
	LiveStats *liveStatsDTO     `json:"liveStats,omitempty"`
	News      []newsItemDTO     `json:"news"`
}

func matchToDTO(m match.UnifiedMatch) matchDTO {
	dto := matchDTO{
		ID:              m.ID,
		LegacyID:        m.LegacyID,
		ExternalMatchID: m.ExternalMatchID,
		LeagueID:        m.LeagueID,
		LeagueName:      m.LeagueName,
		Season:          m.Season,
		Slug:            m.Slug,
		KickoffAt:       timeToDTO(m.KickoffAt),
		ModifiedAt:      timeToDTO(m.ModifiedAt),
		Status:          m.Status,
		Lifecycle:       string(m.Lifecycle(time.Now())),
		Arena:           m.Arena,
		HomeTeam:        teamRefDTO{ID: m.HomeTeam.ID, Name: m.HomeTeam.Name},
		AwayTeam:        teamRefDTO{ID: m.AwayTeam.ID, Name: m.AwayTeam.Name},
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
		Referees:        m.Referees,
		IsCustomGame:    m.IsCustomGame,
	}

	if m.Overrides != (match.Overrides{}) {
		dto.Overrides = &overridesDTO{
			TicketURL:   m.Overrides.TicketURL,
			SoldTickets: m.Overrides.SoldTickets,
			CTAText:     m.Overrides.CTAText,
			CTALink:     m.Overrides.CTALink,
		}
	}

	return dto
}

func resolutionToDTO(resolution usecase.Resolution) resolutionDTO {
	return resolutionDTO{
		Match:  matchToDTO(resolution.Match),
		Lineup: lineupToDTO(resolution.Lineup),
	}
}

func lineupToDTO(l *lineup.Lineup) *lineupDTO {
	if l == nil {
		return nil
	}
	return &lineupDTO{
		Home: teamSheetToDTO(l.Home),
		Away: teamSheetToDTO(l.Away),
	}
}

func teamSheetToDTO(sheet lineup.TeamSheet) teamSheetDTO {
	return teamSheetDTO{
		TeamID:  sheet.TeamID,
		Name:    sheet.Name,
		Coach:   sheet.Coach,
		Players: playersToDTO(sheet.Players),
	}
}

func playersToDTO(players []lineup.Player) []playerDTO {
	out := make([]playerDTO, 0, len(players))
	for _, p := range players {
		out = append(out, playerToDTO(p))
	}
	return out
}

func playerToDTO(p lineup.Player) playerDTO {
	return playerDTO{
		ID:       p.ID,
		Name:     p.Name,
		Number:   p.Number,
		Position: p.Position,
		Captain:  p.Captain,
		Starting: p.Starting,
	}
}

func eventsToDTO(events []timeline.Event) []eventDTO {
	out := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		dto := eventDTO{
			Timestamp:   ev.Timestamp,
			Type:        ev.Type,
			Clock:       ev.ClockLabel(),
			Minute:      ev.Minute,
			Second:      ev.Second,
			HomeScore:   ev.HomeScore,
			AwayScore:   ev.AwayScore,
			Description: ev.Description,
		}
		if ev.Goal != nil {
			dto.Goal = &goalDetailDTO{
				GoalType:     ev.Goal.GoalType,
				ShotPosition: ev.Goal.ShotPosition,
				GoalPosition: ev.Goal.GoalPosition,
				Scorer:       playerToDTO(ev.Goal.Scorer),
				Assister:     playerToDTO(ev.Goal.Assister),
			}
		}
		out = append(out, dto)
	}
	return out
}

func reportToDTO(entries []timeline.ReportEntry) []reportEntryDTO {
	out := make([]reportEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, reportEntryDTO{
			ID:       entry.ID,
			Headline: entry.Headline,
			Body:     entry.Body,
			Minute:   entry.Minute,
			VideoRef: entry.VideoRef,
		})
	}
	return out
}

func standingsToDTO(rows []standings.Row) []standingsRowDTO {
	out := make([]standingsRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingsRowDTO(row))
	}
	return out
}

func teamStatsToDTO(stats *usecase.TeamStats) *teamStatsDTO {
	if stats == nil {
		return nil
	}
	dto := teamStatsDTO(*stats)
	return &dto
}

func liveStatsToDTO(stats *usecase.LiveStats) *liveStatsDTO {
	if stats == nil {
		return nil
	}
	dto := liveStatsDTO(*stats)
	return &dto
}

func newsToDTO(items []usecase.NewsItem) []newsItemDTO {
	out := make([]newsItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, newsItemDTO{
			ID:          item.ID,
			Title:       item.Title,
			Summary:     item.Summary,
			URL:         item.URL,
			PublishedAt: timeToDTO(item.PublishedAt),
		})
	}
	return out
}

func matchPageToDTO(page usecase.MatchPage) matchPageDTO {
	return matchPageDTO{
		Match:     matchToDTO(page.Resolution.Match),
		Lineup:    lineupToDTO(page.Resolution.Lineup),
		Timeline:  eventsToDTO(page.Timeline),
		Report:    reportToDTO(page.Report),
		Standings: standingsToDTO(page.Standings),
		HomeSquad: playersToDTO(page.HomeSquad),
		AwaySquad: playersToDTO(page.AwaySquad),
		HomeStats: teamStatsToDTO(page.HomeStats),
		AwayStats: teamStatsToDTO(page.AwayStats),
		LiveStats: liveStatsToDTO(page.LiveStats),
		News:      newsToDTO(page.News),
	}
}

func timeToDTO(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
