package cms

import (
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/skanelive/matchcenter/internal/usecase"
)

// flexID tolerates CMS payloads where identifiers arrive as either JSON
// strings or numbers. Both forms normalize to their string rendering.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n int64
	if err := sonic.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexID(strconv.FormatInt(n, 10))
	return nil
}

func (f flexID) String() string { return string(f) }

type matchPayload struct {
	ID              flexID `json:"id"`
	LegacyID        int64  `json:"legacyId"`
	Slug            string `json:"slug"`
	LeagueID        flexID `json:"leagueId"`
	LeagueName      string `json:"leagueName"`
	Season          string `json:"season"`
	ExternalMatchID flexID `json:"externalMatchId"`
	KickoffAt       string `json:"kickoffAt"`
	ModifiedAt      string `json:"modifiedAt"`
	Status          string `json:"status"`
	Arena           string `json:"arena"`
	HomeTeamID      flexID `json:"homeTeamId"`
	HomeTeamName    string `json:"homeTeamName"`
	AwayTeamID      flexID `json:"awayTeamId"`
	AwayTeamName    string `json:"awayTeamName"`
	HomeScore       *int   `json:"homeScore"`
	AwayScore       *int   `json:"awayScore"`
	IsCustomGame    bool   `json:"isCustomGame"`
	TicketURL       string `json:"ticketUrl"`
	SoldTickets     *int   `json:"soldTickets"`
	CTAText         string `json:"ctaText"`
	CTALink         string `json:"ctaLink"`
}

type newsPayload struct {
	ID          flexID `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// mapMatchPayload converts a raw CMS record. Records without any
// identifier, or without team names, are considered malformed.
func mapMatchPayload(payload matchPayload) (usecase.CMSMatchRecord, bool) {
	id := payload.ID.String()
	if id == "" && payload.Slug == "" {
		return usecase.CMSMatchRecord{}, false
	}
	if payload.HomeTeamName == "" && payload.AwayTeamName == "" {
		return usecase.CMSMatchRecord{}, false
	}

	return usecase.CMSMatchRecord{
		ID:              id,
		LegacyID:        payload.LegacyID,
		Slug:            payload.Slug,
		LeagueID:        payload.LeagueID.String(),
		LeagueName:      payload.LeagueName,
		Season:          payload.Season,
		ExternalMatchID: payload.ExternalMatchID.String(),
		KickoffAt:       parseCMSTime(payload.KickoffAt),
		ModifiedAt:      parseCMSTime(payload.ModifiedAt),
		Status:          payload.Status,
		Arena:           payload.Arena,
		HomeTeamID:      payload.HomeTeamID.String(),
		HomeTeamName:    payload.HomeTeamName,
		AwayTeamID:      payload.AwayTeamID.String(),
		AwayTeamName:    payload.AwayTeamName,
		HomeScore:       payload.HomeScore,
		AwayScore:       payload.AwayScore,
		IsCustomGame:    payload.IsCustomGame,
		TicketURL:       payload.TicketURL,
		SoldTickets:     payload.SoldTickets,
		CTAText:         payload.CTAText,
		CTALink:         payload.CTALink,
	}, true
}

func parseCMSTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
