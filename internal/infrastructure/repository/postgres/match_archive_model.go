package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type matchArchiveTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	LegacyID        sql.NullInt64  `db:"legacy_id"`
	ExternalMatchID string         `db:"external_match_id"`
	LeagueID        string         `db:"league_id"`
	LeagueName      string         `db:"league_name"`
	Season          string         `db:"season"`
	Slug            string         `db:"slug"`
	KickoffAt       sql.NullTime   `db:"kickoff_at"`
	ModifiedAt      sql.NullTime   `db:"modified_at"`
	Status          string         `db:"status"`
	Arena           sql.NullString `db:"arena"`
	HomeTeamID      string         `db:"home_team_id"`
	HomeTeamName    string         `db:"home_team_name"`
	AwayTeamID      string         `db:"away_team_id"`
	AwayTeamName    string         `db:"away_team_name"`
	HomeScore       sql.NullInt64  `db:"home_score"`
	AwayScore       sql.NullInt64  `db:"away_score"`
	Referees        pq.StringArray `db:"referees"`
	IsCustomGame    bool           `db:"is_custom_game"`
	TicketURL       sql.NullString `db:"ticket_url"`
	SoldTickets     sql.NullInt64  `db:"sold_tickets"`
	CTAText         sql.NullString `db:"cta_text"`
	CTALink         sql.NullString `db:"cta_link"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullTime(value time.Time) sql.NullTime {
	return sql.NullTime{Time: value, Valid: !value.IsZero()}
}

func nullIntFromPtr(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intPtrFromNull(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
