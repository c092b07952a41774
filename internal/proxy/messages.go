package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/florianilch/clibridge/internal/cliadapter"
	"github.com/florianilch/clibridge/internal/cliadapter/types"
)

// CreateMessageHandler handles Anthropic-compatible Messages requests.
type CreateMessageHandler struct {
	Adapter cliadapter.CreateMessageAdapter
}

// Compile-time check to ensure CreateMessageHandler implements http.Handler
var _ http.Handler = (*CreateMessageHandler)(nil)

// ServeHTTP implements http.Handler interface for non-streaming requests.
func (h *CreateMessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cliadapter.CreateMessageRequest
	if err := decodeJSONBody(r.Body, &req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			writeJSONAnthropicError(ctx, w, types.NewAnthropicErrorResponse(
				"request_too_large",
				http.StatusText(http.StatusRequestEntityTooLarge),
			))
			return
		}

		slog.WarnContext(ctx, "failed to decode request", "error", err)
		writeJSONAnthropicError(ctx, w, types.NewAnthropicErrorResponse(
			"invalid_request_error",
			"invalid JSON: "+err.Error(),
		))
		return
	}

	if req.Stream != nil && *req.Stream {
		slog.DebugContext(ctx, "streaming requested but not supported, sending single response")
	}

	h.writeResponse(ctx, w, req)
}

// writeResponse handles non-streaming message requests.
func (h *CreateMessageHandler) writeResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req cliadapter.CreateMessageRequest,
) {
	response, err := h.Adapter.ProcessRequest(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)

		var errResp *cliadapter.AnthropicErrorResponse
		if errors.As(err, &errResp) {
			writeJSONAnthropicError(ctx, w, errResp)
			return
		}
		writeJSONAnthropicError(ctx, w, types.NewAnthropicErrorResponse("api_error", err.Error()))
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}
