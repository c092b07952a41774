package proxy

import (
	"net/http"
	"strings"
)

// HealthReport describes whether the bridge can currently serve requests.
type HealthReport struct {
	// Bridge names the tool the bridge fronts, e.g. "gemini-cli".
	Bridge string
	// Port is the configured listen port.
	Port int
	// ToolAvailable reports whether the tool resolves on the execution path.
	ToolAvailable bool
}

// HealthReporter produces a fresh HealthReport on every call.
type HealthReporter interface {
	Health() HealthReport
}

// healthHandler handles liveness probe requests.
// Always returns 200 OK; a missing tool only degrades the reported status.
func healthHandler(reporter HealthReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := reporter.Health()

		status, tool := "degraded", "not found"
		if report.ToolAvailable {
			status, tool = "healthy", "available"
		}

		w.Header().Set("Cache-Control", "no-cache")
		writeJSON(r.Context(), w, map[string]any{
			"status":                                    status,
			"bridge":                                    report.Bridge,
			"port":                                      report.Port,
			strings.ReplaceAll(report.Bridge, "-", "_"): tool,
		}, http.StatusOK)
	}
}
