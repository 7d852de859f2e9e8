package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skanelive/matchcenter/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "secret-token",
		Logger:  logging.NewNop(),
	})
	return client, server
}

func TestClient_GetMatch_MapsPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/matches/malmo-ffc-vs-hif-2026", r.URL.Path)
		require.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"id": 9041,
			"legacyId": 551,
			"slug": "malmo-ffc-vs-hif-2026",
			"leagueId": "allsvenskan",
			"leagueName": "Allsvenskan",
			"season": "2026",
			"externalMatchId": "ext-77",
			"kickoffAt": "2026-09-05T15:00:00Z",
			"status": "Kommande",
			"homeTeamId": "mff",
			"homeTeamName": "Malmö FF",
			"awayTeamId": "hif",
			"awayTeamName": "Helsingborgs IF",
			"isCustomGame": false,
			"ticketUrl": "https://tickets.example/9041",
			"soldTickets": 12250
		}}`))
	}))

	rec, found, err := client.GetMatch(context.Background(), "malmo-ffc-vs-hif-2026")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "9041", rec.ID)
	require.Equal(t, int64(551), rec.LegacyID)
	require.Equal(t, "allsvenskan", rec.LeagueID)
	require.Equal(t, "ext-77", rec.ExternalMatchID)
	require.Equal(t, "Malmö FF", rec.HomeTeamName)
	require.NotNil(t, rec.SoldTickets)
	require.Equal(t, 12250, *rec.SoldTickets)
	require.False(t, rec.KickoffAt.IsZero())
}

func TestClient_GetMatch_StringIdentifiersAccepted(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"id":"match-uuid-1","slug":"derby","homeTeamName":"A","awayTeamName":"B"}}`))
	}))

	rec, found, err := client.GetMatch(context.Background(), "derby")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "match-uuid-1", rec.ID)
}

func TestClient_GetMatch_NotFoundIsAMiss(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, found, err := client.GetMatch(context.Background(), "vanished")
	require.NoError(t, err)
	require.False(t, found)
}

func TestClient_GetMatch_MalformedRecordDiscarded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"Live"}}`))
	}))

	_, found, err := client.GetMatch(context.Background(), "broken")
	require.NoError(t, err)
	require.False(t, found)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":"m1","homeTeamName":"A","awayTeamName":"B"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	_, found, err := client.GetMatch(context.Background(), "m1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int32(2), calls.Load())
}

func TestClient_GetTeamNews(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/teams/mff/news", r.URL.Path)
		require.Equal(t, "3", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":101,"title":"Inför matchen","url":"https://news.example/101","publishedAt":"2026-08-30T08:00:00Z"},
			{"id":"n-102","title":"Startelvan klar"}
		]}`))
	}))

	items, err := client.GetTeamNews(context.Background(), "mff", 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "101", items[0].ID)
	require.Equal(t, "n-102", items[1].ID)
	require.Equal(t, "Inför matchen", items[0].Title)
}
