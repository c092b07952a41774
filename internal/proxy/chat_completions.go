package proxy

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/florianilch/clibridge/internal/cliadapter"
)

// CreateChatCompletionsHandler handles OpenAI-compatible chat completion requests.
type CreateChatCompletionsHandler struct {
	Adapter cliadapter.CreateChatCompletionAdapter
}

// Compile-time check to ensure CreateChatCompletionsHandler implements http.Handler
var _ http.Handler = (*CreateChatCompletionsHandler)(nil)

// ServeHTTP implements http.Handler interface for non-streaming requests.
func (h *CreateChatCompletionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req cliadapter.CreateChatCompletionRequest
	if err := decodeJSONBody(r.Body, &req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			slog.WarnContext(ctx, "request exceeds size limit", "limit_bytes", maxBytesErr.Limit)
			writeJSONOpenAIError(ctx, w, &cliadapter.ErrorResponse{
				Err: cliadapter.Error{
					Message: http.StatusText(http.StatusRequestEntityTooLarge),
					Type:    "request_too_large",
				},
			})
			return
		}

		slog.WarnContext(ctx, "failed to decode request", "error", err)
		writeJSONOpenAIError(ctx, w, &cliadapter.ErrorResponse{
			Err: cliadapter.Error{
				Message: "invalid JSON: " + err.Error(),
				Type:    "invalid_request_error",
			},
		})
		return
	}

	if req.Stream != nil && *req.Stream {
		slog.DebugContext(ctx, "streaming requested but not supported, sending single response")
	}

	h.writeResponse(ctx, w, req)
}

// writeResponse handles non-streaming chat completion requests.
func (h *CreateChatCompletionsHandler) writeResponse(
	ctx context.Context,
	w http.ResponseWriter,
	req cliadapter.CreateChatCompletionRequest,
) {
	response, err := h.Adapter.ProcessRequest(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "request failed", "error", err)

		var errResp *cliadapter.ErrorResponse
		if errors.As(err, &errResp) {
			writeJSONOpenAIError(ctx, w, errResp)
			return
		}
		writeJSONOpenAIError(ctx, w, &cliadapter.ErrorResponse{
			Err: cliadapter.Error{
				Message: err.Error(),
				Type:    "api_error",
			},
		})
		return
	}

	writeJSON(ctx, w, response, http.StatusOK)
}
