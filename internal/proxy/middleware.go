package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/florianilch/clibridge/internal/cliadapter"
	"github.com/florianilch/clibridge/internal/cliadapter/types"
)

// Recovery recovers from panics in HTTP handlers and returns HTTP 500 with the panic
// message to the client, in the Anthropic error shape on Messages routes and the
// OpenAI shape everywhere else.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				// Deliberate connection abort, let net/http handle it
				panic(rec)
			}
			slog.ErrorContext(r.Context(), "handler panicked", "panic", rec)
			msg := fmt.Sprint(rec)
			if strings.HasSuffix(r.URL.Path, "/messages") {
				writeJSONAnthropicError(r.Context(), w, types.NewAnthropicErrorResponse("api_error", msg))
				return
			}
			writeJSONOpenAIError(r.Context(), w, &cliadapter.ErrorResponse{
				Err: cliadapter.Error{
					Message: msg,
					Type:    "api_error",
				},
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestSizeLimit enforces maximum request body size.
// Handlers that read the body will receive *http.MaxBytesError when the limit is exceeded.
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
