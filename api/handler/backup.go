package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmind/backend/api/transport"
	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/pkg/httpcontext"
	backupUC "github.com/taskmind/backend/usecase/backup"
)

type BackupHandler struct {
	baseHandler
	engine *backupUC.Engine
}

func NewBackupHandler(engine *backupUC.Engine, adapter *httpcontext.Adapter, logger *zap.Logger) *BackupHandler {
	return &BackupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		engine:      engine,
	}
}

// @Summary Reconcile a backup document into the store
// @Tags backup
// @Router /api/v1/backup/import [post]
func (h *BackupHandler) Import(ctx *fasthttp.RequestCtx) {
	body := ctx.PostBody()
	if len(body) == 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "empty backup payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.engine.Import(stdCtx, body)
	if err != nil {
		// Partial progress still matters to the caller; report the counts
		// alongside the terminating cause.
		status, code := mapError(err)
		h.respondJSON(ctx, status, transport.NewError(code, err.Error(), result))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Export the full store as a backup document
// @Tags backup
// @Router /api/v1/backup/export [get]
func (h *BackupHandler) Export(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	doc, err := h.engine.Export(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, doc)
}
