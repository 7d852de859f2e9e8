package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/skanelive/matchcenter/internal/domain/match"
)

// MatchArchiveRepository persists finished match resolutions. The archive is
// read when the provider cannot serve a historical match anymore.
type MatchArchiveRepository struct {
	db *sqlx.DB
}

func NewMatchArchiveRepository(db *sqlx.DB) *MatchArchiveRepository {
	return &MatchArchiveRepository{db: db}
}

const upsertMatchArchiveQuery = `
INSERT INTO match_archive (
	public_id, legacy_id, external_match_id, league_id, league_name, season,
	slug, kickoff_at, modified_at, status, arena,
	home_team_id, home_team_name, away_team_id, away_team_name,
	home_score, away_score, referees, is_custom_game,
	ticket_url, sold_tickets, cta_text, cta_link, updated_at
) VALUES (
	:public_id, :legacy_id, :external_match_id, :league_id, :league_name, :season,
	:slug, :kickoff_at, :modified_at, :status, :arena,
	:home_team_id, :home_team_name, :away_team_id, :away_team_name,
	:home_score, :away_score, :referees, :is_custom_game,
	:ticket_url, :sold_tickets, :cta_text, :cta_link, NOW()
)
ON CONFLICT (league_id, external_match_id) DO UPDATE SET
	public_id = EXCLUDED.public_id,
	legacy_id = EXCLUDED.legacy_id,
	league_name = EXCLUDED.league_name,
	season = EXCLUDED.season,
	slug = EXCLUDED.slug,
	kickoff_at = EXCLUDED.kickoff_at,
	modified_at = EXCLUDED.modified_at,
	status = EXCLUDED.status,
	arena = EXCLUDED.arena,
	home_team_id = EXCLUDED.home_team_id,
	home_team_name = EXCLUDED.home_team_name,
	away_team_id = EXCLUDED.away_team_id,
	away_team_name = EXCLUDED.away_team_name,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	referees = EXCLUDED.referees,
	is_custom_game = EXCLUDED.is_custom_game,
	ticket_url = EXCLUDED.ticket_url,
	sold_tickets = EXCLUDED.sold_tickets,
	cta_text = EXCLUDED.cta_text,
	cta_link = EXCLUDED.cta_link,
	updated_at = NOW()`

func (r *MatchArchiveRepository) Upsert(ctx context.Context, m match.UnifiedMatch) error {
	if m.LeagueID == "" || m.ExternalMatchID == "" {
		return fmt.Errorf("league id and external match id are required to archive a match")
	}

	row := matchArchiveTableModel{
		PublicID:        m.ID,
		LegacyID:        sql.NullInt64{Int64: m.LegacyID, Valid: m.LegacyID != 0},
		ExternalMatchID: m.ExternalMatchID,
		LeagueID:        m.LeagueID,
		LeagueName:      m.LeagueName,
		Season:          m.Season,
		Slug:            m.Slug,
		KickoffAt:       nullTime(m.KickoffAt),
		ModifiedAt:      nullTime(m.ModifiedAt),
		Status:          m.Status,
		Arena:           nullString(m.Arena),
		HomeTeamID:      m.HomeTeam.ID,
		HomeTeamName:    m.HomeTeam.Name,
		AwayTeamID:      m.AwayTeam.ID,
		AwayTeamName:    m.AwayTeam.Name,
		HomeScore:       nullIntFromPtr(m.HomeScore),
		AwayScore:       nullIntFromPtr(m.AwayScore),
		Referees:        pq.StringArray(m.Referees),
		IsCustomGame:    m.IsCustomGame,
		TicketURL:       nullString(m.Overrides.TicketURL),
		SoldTickets:     nullIntFromPtr(m.Overrides.SoldTickets),
		CTAText:         nullString(m.Overrides.CTAText),
		CTALink:         nullString(m.Overrides.CTALink),
	}

	if _, err := r.db.NamedExecContext(ctx, upsertMatchArchiveQuery, row); err != nil {
		return fmt.Errorf("upsert match archive league=%s match=%s: %w", m.LeagueID, m.ExternalMatchID, err)
	}
	return nil
}

func (r *MatchArchiveRepository) GetByKey(ctx context.Context, leagueID, matchID string) (match.UnifiedMatch, bool, error) {
	const query = `
SELECT * FROM match_archive
WHERE league_id = $1 AND external_match_id = $2`

	var row matchArchiveTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, matchID); err != nil {
		if isNotFound(err) {
			return match.UnifiedMatch{}, false, nil
		}
		return match.UnifiedMatch{}, false, fmt.Errorf("get archived match league=%s match=%s: %w", leagueID, matchID, err)
	}

	return matchFromArchiveRow(row), true, nil
}

func matchFromArchiveRow(row matchArchiveTableModel) match.UnifiedMatch {
	return match.UnifiedMatch{
		ID:              row.PublicID,
		LegacyID:        row.LegacyID.Int64,
		ExternalMatchID: row.ExternalMatchID,
		LeagueID:        row.LeagueID,
		LeagueName:      row.LeagueName,
		Season:          row.Season,
		Slug:            row.Slug,
		KickoffAt:       row.KickoffAt.Time,
		ModifiedAt:      row.ModifiedAt.Time,
		Status:          row.Status,
		Arena:           row.Arena.String,
		HomeTeam:        match.TeamRef{ID: row.HomeTeamID, Name: row.HomeTeamName},
		AwayTeam:        match.TeamRef{ID: row.AwayTeamID, Name: row.AwayTeamName},
		HomeScore:       intPtrFromNull(row.HomeScore),
		AwayScore:       intPtrFromNull(row.AwayScore),
		Referees:        []string(row.Referees),
		IsCustomGame:    row.IsCustomGame,
		Overrides: match.Overrides{
			TicketURL:   row.TicketURL.String,
			SoldTickets: intPtrFromNull(row.SoldTickets),
			CTAText:     row.CTAText.String,
			CTALink:     row.CTALink.String,
		},
	}
}
