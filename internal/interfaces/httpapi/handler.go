package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stavrosdim/hooprank/internal/usecase"
)

type Handler struct {
	rankingService *usecase.RankingService
	logger         *slog.Logger
	validator      *validator.Validate
}

func NewHandler(rankingService *usecase.RankingService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		rankingService: rankingService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams := h.rankingService.Teams()
	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{ID: t.ID, Name: t.Name})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type rankingsQuery struct {
	MaxWorkers int  `validate:"omitempty,min=1,max=8"`
	Refresh    bool `validate:"-"`
}

func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRankings")
	defer span.End()

	query, err := parseRankingsQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %s", usecase.ErrInvalidInput, err))
		return
	}

	run, err := h.rankingService.RankTeams(ctx, usecase.RankTeamsInput{
		MaxWorkers: query.MaxWorkers,
		Refresh:    query.Refresh,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "rank teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingRunToDTO(run))
}

func (h *Handler) GetTeamPreview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamPreview")
	defer span.End()

	teamID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("teamID")), 10, 64)
	if err != nil || teamID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: team id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	summary, breakdown, err := h.rankingService.TeamPreview(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "team preview failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamPreviewToDTO(summary, breakdown))
}

func parseRankingsQuery(r *http.Request) (rankingsQuery, error) {
	out := rankingsQuery{}
	values := r.URL.Query()

	if raw := strings.TrimSpace(values.Get("max_workers")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return out, fmt.Errorf("%w: max_workers must be an integer", usecase.ErrInvalidInput)
		}
		out.MaxWorkers = parsed
	}
	if raw := strings.TrimSpace(values.Get("refresh")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return out, fmt.Errorf("%w: refresh must be a boolean", usecase.ErrInvalidInput)
		}
		out.Refresh = parsed
	}

	return out, nil
}
