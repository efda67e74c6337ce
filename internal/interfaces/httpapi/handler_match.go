package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/goalfeed/livescore-api/internal/domain/livescore"
)

type liveScoreDTO struct {
	MatchKey  string          `json:"match_key"`
	Status    string          `json:"status"`
	Minute    *int            `json:"minute"`
	Score     livescore.Score `json:"score"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func liveScoreToDTO(record livescore.Record) liveScoreDTO {
	return liveScoreDTO{
		MatchKey:  record.Key,
		Status:    record.Status,
		Minute:    record.Minute,
		Score:     record.Score,
		UpdatedAt: record.UpdatedAt,
	}
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	leagueCode := strings.TrimSpace(r.URL.Query().Get("league"))
	matches, err := h.matchService.ListMatches(ctx, leagueCode)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "league", leagueCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matches)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	match, err := h.matchService.GetMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, match)
}

func (h *Handler) GetMatchLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchLive")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	record, err := h.liveScoreService.Resolve(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve live score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveScoreToDTO(record))
}
