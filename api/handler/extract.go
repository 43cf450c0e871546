package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmind/backend/api/transport"
	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/pkg/httpcontext"
	extractUC "github.com/taskmind/backend/usecase/extract"
)

type ExtractHandler struct {
	baseHandler
	uc *extractUC.UseCase
}

func NewExtractHandler(uc *extractUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ExtractHandler {
	return &ExtractHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Extract tasks from free text
// @Tags extract
// @Router /api/v1/extract [post]
func (h *ExtractHandler) Extract(ctx *fasthttp.RequestCtx) {
	var req transport.ExtractRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}
	if req.Text == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing text", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ExtractTasks(stdCtx, extractUC.Input{
		ProviderID: req.Provider,
		APIKey:     req.APIKey,
		Text:       req.Text,
		Source:     domain.HistorySource(req.Source),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary List selectable providers
// @Tags extract
// @Router /api/v1/providers [get]
func (h *ExtractHandler) Providers(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.uc.SupportedProviders())
}

// @Summary Validate a provider credential
// @Tags extract
// @Router /api/v1/providers/test [post]
func (h *ExtractHandler) TestProvider(ctx *fasthttp.RequestCtx) {
	var req transport.TestProviderRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.TestProvider(stdCtx, req.Provider, req.APIKey); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]bool{"connected": true})
}

// @Summary Store the provider API key
// @Tags extract
// @Router /api/v1/credential [put]
func (h *ExtractHandler) SaveCredential(ctx *fasthttp.RequestCtx) {
	var req transport.CredentialRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.APIKey == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing api key", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.SaveCredential(stdCtx, req.APIKey); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
