package app

import (
	"github.com/florianilch/clibridge/internal/proxy"
)

// ToolProbe reports whether the tool can be launched.
type ToolProbe interface {
	Available() bool
}

// Health reports bridge health for the /health endpoint.
// The tool is looked up on every call, so installing or removing it is reflected
// without a restart. All methods are safe for concurrent use.
type Health struct {
	bridge string
	port   int
	probe  ToolProbe
}

// Compile-time check that Health implements proxy.HealthReporter interface
var _ proxy.HealthReporter = (*Health)(nil)

// NewHealth creates a Health reporter for the named bridge.
func NewHealth(bridge string, port int, probe ToolProbe) *Health {
	return &Health{bridge: bridge, port: port, probe: probe}
}

// Health returns the current report.
func (h *Health) Health() proxy.HealthReport {
	return proxy.HealthReport{
		Bridge:        h.bridge,
		Port:          h.port,
		ToolAvailable: h.probe.Available(),
	}
}
