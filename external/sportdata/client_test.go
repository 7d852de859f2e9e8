package sportdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skanelive/matchcenter/internal/platform/logging"
	"github.com/skanelive/matchcenter/internal/platform/resilience"
	"github.com/skanelive/matchcenter/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL:      server.URL,
		APIKey:       "prov-secret",
		MaxRetries:   -1,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	})
}

func TestClient_GetMatch_MapsPayload(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/leagues/allsvenskan/matches/ext-77", r.URL.Path)
		require.Equal(t, "prov-secret", r.URL.Query().Get("api_key"))
		_, _ = w.Write([]byte(`{"data":{
			"matchId": "ext-77",
			"leagueId": "allsvenskan",
			"season": "2026",
			"status": "Live",
			"kickoffAt": "2026-09-05T15:00:00Z",
			"arena": "Eleda Stadion",
			"homeTeam": {"id": "mff", "name": "Malmö FF"},
			"awayTeam": {"id": "hif", "name": "Helsingborgs IF"},
			"homeScore": 2,
			"awayScore": 1,
			"referees": ["Anna Nilsson"]
		}}`))
	}))

	rec, found, err := client.GetMatch(context.Background(), "allsvenskan", "ext-77")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "ext-77", rec.ExternalID)
	require.Equal(t, "Live", rec.Status)
	require.Equal(t, "Eleda Stadion", rec.Arena)
	require.Equal(t, "Malmö FF", rec.HomeTeam.Name)
	require.NotNil(t, rec.HomeScore)
	require.Equal(t, 2, *rec.HomeScore)
	require.Equal(t, []string{"Anna Nilsson"}, rec.Referees)
}

func TestClient_GetMatch_NotFoundIsAMiss(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, found, err := client.GetMatch(context.Background(), "allsvenskan", "missing")
	require.NoError(t, err)
	require.False(t, found)
}

func TestClient_GetEvents_MissingFeedIsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	events, err := client.GetEvents(context.Background(), "allsvenskan", "2026", "ext-77")
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestClient_GetStandings_DropsMalformedRows(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/leagues/allsvenskan/seasons/2026/standings", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[
			{"teamId": "mff", "teamName": "Malmö FF", "position": 1, "points": 42},
			{"teamId": "", "teamName": "Spökklubb", "position": 2},
			{"teamId": "hif", "teamName": "", "position": 3},
			{"teamId": "dif", "teamName": "Djurgårdens IF", "position": 4, "points": 37}
		]}`))
	}))

	rows, err := client.GetStandings(context.Background(), "allsvenskan", "2026")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "mff", rows[0].TeamID)
	require.Equal(t, "dif", rows[1].TeamID)
}

func TestClient_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"matchId":"m1"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:      server.URL,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	})

	rec, found, err := client.GetMatch(context.Background(), "l1", "m1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "m1", rec.ExternalID)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_ConcurrentIdenticalRequestsShareOneCall(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = w.Write([]byte(`{"data":{"matchId":"m1","status":"Live"}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:      server.URL,
		MaxRetries:   -1,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	})

	const workers = 12
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			started.Wait()
			rec, found, err := client.GetMatch(context.Background(), "l1", "m1")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, "Live", rec.Status)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.LessOrEqual(t, calls.Load(), int32(3))
}

func TestClient_CircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:      server.URL,
		MaxRetries:   -1,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for range 2 {
		_, _, err := client.GetMatch(context.Background(), "l1", "m1")
		require.Error(t, err)
	}

	_, _, err := client.GetMatch(context.Background(), "l1", "m1")
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
}

func TestRedactURL(t *testing.T) {
	redacted := redactURL("https://api.example/v1/leagues/l1/matches/m1?api_key=super-secret&x=1")
	require.NotContains(t, redacted, "super-secret")
	require.Contains(t, redacted, "api_key=REDACTED")
	require.Contains(t, redacted, "x=1")
}
