package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v3"
)

// Logging logs HTTP requests with method, path, status, and duration.
// Successful health probes are skipped; they would drown out request logs.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS.Concise(true),

		// Prompts are user data: never log bodies, and only harmless request headers
		LogRequestHeaders:  []string{"Content-Type", "User-Agent"},
		LogResponseHeaders: []string{},
		LogRequestBody:     nil,
		LogResponseBody:    nil,

		Skip: func(req *http.Request, respStatus int) bool {
			return respStatus == http.StatusOK && strings.HasSuffix(req.URL.Path, "/health")
		},

		RecoverPanics: false, // use dedicated middleware, panics are logged regardless
	})
}
