package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skanelive/matchcenter/internal/usecase"
)

type Handler struct {
	matchService    *usecase.MatchService
	timelineService *usecase.TimelineService
	pageService     *usecase.MatchPageService
	logger          *slog.Logger
	validator       *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	timelineService *usecase.TimelineService,
	pageService *usecase.MatchPageService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		matchService:    matchService,
		timelineService: timelineService,
		pageService:     pageService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetMatchBySlug resolves one match from its CMS slug or id.
func (h *Handler) GetMatchBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchBySlug")
	defer span.End()

	slug := strings.TrimSpace(r.PathValue("slug"))
	resolution, err := h.matchService.ResolveBySlug(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve match by slug failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolutionToDTO(resolution))
}

type matchKeyParams struct {
	LeagueID string `validate:"required"`
	MatchID  string `validate:"required"`
}

// GetMatchByKey resolves one match from its league and provider match id.
func (h *Handler) GetMatchByKey(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchByKey")
	defer span.End()

	params, err := h.matchKeyFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resolution, err := h.matchService.ResolveByKey(ctx, params.LeagueID, params.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve match by key failed",
			"league_id", params.LeagueID, "match_id", params.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolutionToDTO(resolution))
}

// GetTimeline returns the merged, most-recent-first event timeline for a
// match. Custom games have no provider feed and return an empty list.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTimeline")
	defer span.End()

	params, err := h.matchKeyFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resolution, err := h.matchService.ResolveByKey(ctx, params.LeagueID, params.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve match for timeline failed",
			"league_id", params.LeagueID, "match_id", params.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	events, err := h.timelineService.ForMatch(ctx, resolution.Match)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch timeline failed",
			"league_id", params.LeagueID, "match_id", params.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventsToDTO(events))
}

// GetMatchPage returns the full aggregated match page.
func (h *Handler) GetMatchPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchPage")
	defer span.End()

	params, err := h.matchKeyFromPath(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.pageService.Get(ctx, params.LeagueID, params.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "build match page failed",
			"league_id", params.LeagueID, "match_id", params.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchPageToDTO(page))
}

func (h *Handler) matchKeyFromPath(ctx context.Context, r *http.Request) (matchKeyParams, error) {
	params := matchKeyParams{
		LeagueID: strings.TrimSpace(r.PathValue("leagueID")),
		MatchID:  strings.TrimSpace(r.PathValue("matchID")),
	}
	if err := h.validator.StructCtx(ctx, params); err != nil {
		return matchKeyParams{}, fmt.Errorf("%w: league id and match id are required", usecase.ErrInvalidInput)
	}
	return params, nil
}
