package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/florianilch/clibridge/internal/cliadapter"
)

// decodeJSONBody decodes exactly one JSON value from r into v.
// Anything but whitespace after the value is rejected.
func decodeJSONBody(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON value")
		}
		return fmt.Errorf("unexpected data after JSON value: %w", err)
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
// Logs encoding failures internally using the provided context.
func writeJSON(ctx context.Context, w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	// Headers and status are written before encoding to avoid buffering.
	// If encoding fails, the client may receive a partial response.
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", "error", err)
	}
}

// writeJSONOpenAIError writes an OpenAI-compatible error response with the appropriate HTTP status code.
// The status code is determined from the error type according to OpenAI API conventions.
func writeJSONOpenAIError(ctx context.Context, w http.ResponseWriter, errResp *cliadapter.ErrorResponse) {
	writeJSON(ctx, w, errResp, statusForErrorType(errResp.Err.Type))
}

// writeJSONAnthropicError writes an Anthropic-compatible error response.
func writeJSONAnthropicError(ctx context.Context, w http.ResponseWriter, errResp *cliadapter.AnthropicErrorResponse) {
	writeJSON(ctx, w, errResp, statusForErrorType(errResp.Err.Type))
}

// statusForErrorType maps error types shared by both wire formats to HTTP status codes.
func statusForErrorType(errType string) int {
	switch errType {
	case "invalid_request_error":
		return http.StatusBadRequest
	case "not_found_error":
		return http.StatusNotFound
	case "request_too_large":
		return http.StatusRequestEntityTooLarge
	case "api_error", "server_error":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// notFoundHandler answers unknown paths and methods.
func notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, map[string]string{"error": "not found"}, http.StatusNotFound)
	}
}
