package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmind/backend/api/transport"
	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/pkg/httpcontext"
	"github.com/taskmind/backend/repository"
)

type HistoryHandler struct {
	baseHandler
	history repository.HistoryRepository
}

func NewHistoryHandler(history repository.HistoryRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		history:     history,
	}
}

// @Summary List extraction history, newest first
// @Tags history
// @Router /api/v1/history [get]
func (h *HistoryHandler) List(ctx *fasthttp.RequestCtx) {
	limit := 100
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.history.List(stdCtx, limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Delete one history entry
// @Tags history
// @Router /api/v1/history/{id} [delete]
func (h *HistoryHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing entry id", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.history.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Clear the extraction history
// @Tags history
// @Router /api/v1/history [delete]
func (h *HistoryHandler) DeleteAll(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.history.DeleteAll(stdCtx); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
