package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/goalfeed/livescore-api/internal/usecase"
)

const maxInternalJobBodyBytes = 1 << 20

type refreshJobRequest struct {
	League       string `json:"league" validate:"omitempty,max=64"`
	DelaySeconds int    `json:"delay_seconds" validate:"gte=0,lte=86400"`
}

// RunRefreshLiveJob sweeps live scores across fixtures. With a positive
// delay the sweep is re-published to the job queue instead of running
// inline, which is how QStash callbacks chain themselves.
func (h *Handler) RunRefreshLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshLiveJob")
	defer span.End()

	req, err := h.decodeRefreshJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if req.DelaySeconds > 0 {
		delay := time.Duration(req.DelaySeconds) * time.Second
		if err := h.refreshService.ScheduleRefresh(ctx, req.League, delay); err != nil {
			h.logger.WarnContext(ctx, "schedule live refresh failed", "league", req.League, "delay", delay, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusAccepted, map[string]string{"status": "scheduled"})
		return
	}

	result, err := h.refreshService.RefreshAll(ctx, req.League)
	if err != nil {
		h.logger.WarnContext(ctx, "run live refresh job failed", "league", req.League, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunReloadFixturesJob rebuilds the alias index from the fixture feed.
func (h *Handler) RunReloadFixturesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReloadFixturesJob")
	defer span.End()

	indexed, err := h.fixtureIndexService.Rebuild(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reload fixtures job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"indexed": indexed})
}

func (h *Handler) decodeRefreshJobRequest(r *http.Request) (refreshJobRequest, error) {
	var req refreshJobRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxInternalJobBodyBytes))
	if err != nil {
		return req, fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	if err := sonic.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
