package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/skanelive/matchcenter/internal/domain/lineup"
	"github.com/skanelive/matchcenter/internal/domain/standings"
	"github.com/skanelive/matchcenter/internal/domain/timeline"
	"github.com/skanelive/matchcenter/internal/platform/cache"
	"github.com/skanelive/matchcenter/internal/platform/logging"
	"github.com/skanelive/matchcenter/internal/usecase"
)

type fakeCMS struct {
	match usecase.CMSMatchRecord
	found bool
}

func (f *fakeCMS) GetMatch(_ context.Context, _ string) (usecase.CMSMatchRecord, bool, error) {
	return f.match, f.found, nil
}

func (f *fakeCMS) GetTeamNews(_ context.Context, _ string, _ int) ([]usecase.NewsItem, error) {
	return nil, nil
}

type fakeProvider struct {
	match  usecase.ProviderMatchRecord
	found  bool
	events []timeline.Event
	goals  []timeline.GoalDetail
	sheets *lineup.Lineup
}

func (f *fakeProvider) GetMatch(_ context.Context, _, _ string) (usecase.ProviderMatchRecord, bool, error) {
	return f.match, f.found, nil
}

func (f *fakeProvider) GetLineup(_ context.Context, _, _, _ string) (lineup.Lineup, bool, error) {
	if f.sheets == nil {
		return lineup.Lineup{}, false, nil
	}
	return *f.sheets, true, nil
}

func (f *fakeProvider) GetLiveStats(_ context.Context, _, _ string) (usecase.LiveStats, bool, error) {
	return usecase.LiveStats{}, false, nil
}

func (f *fakeProvider) GetEvents(_ context.Context, _, _, _ string) ([]timeline.Event, error) {
	return f.events, nil
}

func (f *fakeProvider) GetGoalDetails(_ context.Context, _, _, _ string) ([]timeline.GoalDetail, error) {
	return f.goals, nil
}

func (f *fakeProvider) GetLiveReport(_ context.Context, _, _, _ string) ([]timeline.ReportEntry, error) {
	return nil, nil
}

func (f *fakeProvider) GetStandings(_ context.Context, _, _ string) ([]standings.Row, error) {
	return nil, nil
}

func (f *fakeProvider) GetSquad(_ context.Context, _ string) ([]lineup.Player, error) {
	return nil, nil
}

func (f *fakeProvider) GetTeamStats(_ context.Context, _, _, _ string) (usecase.TeamStats, bool, error) {
	return usecase.TeamStats{}, false, nil
}

func newTestRouter(cms *fakeCMS, provider *fakeProvider) http.Handler {
	logger := logging.NewNop()
	matchService := usecase.NewMatchService(cms, provider, cache.NewStore(0), nil, logger)
	timelineService := usecase.NewTimelineService(provider, logger)
	pageService := usecase.NewMatchPageService(matchService, timelineService, cms, provider, logger)
	handler := NewHandler(matchService, timelineService, pageService, slog.New(slog.DiscardHandler))
	return NewRouter(handler, slog.New(slog.DiscardHandler), []string{"*"})
}

func intp(v int) *int { return &v }

func TestRouter_GetMatchByKey(t *testing.T) {
	provider := &fakeProvider{
		match: usecase.ProviderMatchRecord{
			ExternalID: "ext-77",
			LeagueID:   "allsvenskan",
			Season:     "2026",
			Status:     "Slutspelad",
			HomeScore:  intp(2),
			AwayScore:  intp(1),
		},
		found: true,
	}
	router := newTestRouter(&fakeCMS{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/allsvenskan/matches/ext-77", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data resolutionDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if body.Data.Match.ExternalMatchID != "ext-77" {
		t.Fatalf("expected external match id ext-77, got %q", body.Data.Match.ExternalMatchID)
	}
	if body.Data.Match.Lifecycle != "finished" {
		t.Fatalf("expected lifecycle finished, got %q", body.Data.Match.Lifecycle)
	}
	if body.Data.Match.HomeScore == nil || *body.Data.Match.HomeScore != 2 {
		t.Fatalf("unexpected home score: %v", body.Data.Match.HomeScore)
	}
}

func TestRouter_GetMatchByKey_NotFound(t *testing.T) {
	router := newTestRouter(&fakeCMS{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/allsvenskan/matches/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_GetTimeline_ClockAndGoalEnrichment(t *testing.T) {
	provider := &fakeProvider{
		match: usecase.ProviderMatchRecord{
			ExternalID: "ext-77",
			Season:     "2026",
			Status:     "Live",
		},
		found: true,
		events: []timeline.Event{
			{Timestamp: "T1", Type: "kickoff", Minute: intp(0), Second: intp(12)},
			{Timestamp: "T2", Type: "goal", Minute: intp(42)},
		},
		goals: []timeline.GoalDetail{
			{Timestamp: "T2", ScorerID: "p9", GoalType: "header"},
		},
		sheets: &lineup.Lineup{
			Home: lineup.TeamSheet{Players: []lineup.Player{{ID: "p9", Name: "Erik Dahl"}}},
		},
	}
	router := newTestRouter(&fakeCMS{}, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leagues/allsvenskan/matches/ext-77/timeline", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []eventDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 events, got %d", len(body.Data))
	}
	// Most recent first.
	if body.Data[0].Timestamp != "T2" {
		t.Fatalf("expected newest event first, got %q", body.Data[0].Timestamp)
	}
	if body.Data[0].Clock != "42'" {
		t.Fatalf("expected clock 42', got %q", body.Data[0].Clock)
	}
	if body.Data[0].Goal == nil || body.Data[0].Goal.Scorer.Name != "Erik Dahl" {
		t.Fatalf("expected enriched scorer, got %+v", body.Data[0].Goal)
	}
	// Zero minute falls back to the second-resolution clock.
	if body.Data[1].Clock != "12s" {
		t.Fatalf("expected clock 12s, got %q", body.Data[1].Clock)
	}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(&fakeCMS{}, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
