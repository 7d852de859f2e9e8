package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/match"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/platform/cache"
	"github.com/skanelive/matchcenter/internal/platform/logging"
)

func newTestMatchPageService(cms *stubCMS, provider *stubProvider) *MatchPageService {
	resolver := NewMatchService(cms, provider, cache.NewStore(time.Minute), nil, logging.NewNop())
	timelineSvc := NewTimelineService(provider, logging.NewNop())
	return NewMatchPageService(resolver, timelineSvc, cms, provider, logging.NewNop())
}

func matchPageProvider() *stubProvider {
	return &stubProvider{
		getMatch: func(context.Context, string, string) (ProviderMatchRecord, bool, error) {
			return ProviderMatchRecord{
				ExternalID: "M1",
				LeagueID:   "L1",
				Season:     "2026",
				Status:     "Live",
				HomeTeam:   match.TeamRef{ID: "t-1", Name: "Malmö FF"},
				AwayTeam:   match.TeamRef{ID: "t-2", Name: "Häcken"},
			}, true, nil
		},
	}
}

func TestMatchPageService_BranchFailureIsIsolated(t *testing.T) {
	provider := matchPageProvider()
	provider.getStandings = func(context.Context, string, string) ([]standings.Row, error) {
		return nil, errors.New("standings endpoint 500")
	}
	provider.getSquad = func(_ context.Context, teamID string) ([]lineup.Player, error) {
		return []lineup.Player{{ID: "p-1", Name: "Nils Vik"}}, nil
	}
	provider.getTeamStats = func(_ context.Context, _, _, teamID string) (TeamStats, bool, error) {
		return TeamStats{TeamID: teamID, Played: 10}, true, nil
	}

	svc := newTestMatchPageService(&stubCMS{}, provider)

	page, err := svc.Get(context.Background(), "L1", "M1")
	require.NoError(t, err, "a failed standings branch must not fail the page")

	require.Nil(t, page.Standings)
	require.Len(t, page.HomeSquad, 1)
	require.Len(t, page.AwaySquad, 1)
	require.NotNil(t, page.HomeStats)
	require.Equal(t, 10, page.HomeStats.Played)
}

func TestMatchPageService_MalformedEntriesAreFiltered(t *testing.T) {
	provider := matchPageProvider()
	provider.getStandings = func(context.Context, string, string) ([]standings.Row, error) {
		return []standings.Row{
			{TeamID: "t-1", TeamName: "Malmö FF", Points: 30},
			{TeamID: "", TeamName: "Spökklubb"},
			{TeamID: "t-3", TeamName: "", Points: 12},
			{TeamID: "t-2", TeamName: "Häcken", Points: 27},
		}, nil
	}
	provider.getSquad = func(context.Context, string) ([]lineup.Player, error) {
		return []lineup.Player{
			{ID: "p-1", Name: "Nils Vik"},
			{ID: "", Name: "Okänd"},
			{ID: "p-3", Name: ""},
		}, nil
	}

	cms := &stubCMS{
		getTeamNews: func(context.Context, string, int) ([]NewsItem, error) {
			return []NewsItem{
				{ID: "n-1", Title: "Inför matchen"},
				{ID: "", Title: "trasig post"},
			}, nil
		},
	}

	svc := newTestMatchPageService(cms, provider)

	page, err := svc.Get(context.Background(), "L1", "M1")
	require.NoError(t, err)

	require.Len(t, page.Standings, 2, "malformed standings rows are dropped, valid rows kept")
	require.Len(t, page.HomeSquad, 1)
	require.Len(t, page.News, 1)
}

func TestMatchPageService_ResolutionFailureFailsThePage(t *testing.T) {
	svc := newTestMatchPageService(&stubCMS{}, &stubProvider{})

	_, err := svc.Get(context.Background(), "L1", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
