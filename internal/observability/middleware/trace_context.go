package middleware

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// TraceContextExtraction joins the caller's W3C trace (Traceparent/Tracestate headers)
// without creating spans. The span context is stored in the request context, where the
// observability log handler picks it up for every record of the request, including the
// request log. Must run outside Logging.
func TraceContextExtraction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
