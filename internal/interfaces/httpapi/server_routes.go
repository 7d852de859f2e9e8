package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/matches/{slug}", handler.GetMatchBySlug)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/matches/{matchID}", handler.GetMatchByKey)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/matches/{matchID}/timeline", handler.GetTimeline)
	mux.HandleFunc("GET /api/v1/leagues/{leagueID}/matches/{matchID}/page", handler.GetMatchPage)
}
