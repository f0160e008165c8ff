package loadtop

import (
	"fmt"
	"time"
)

const (
	// LOAD_ENDPOINT_PATH is the path of the load endpoint, relative to the origin
	LOAD_ENDPOINT_PATH = "/get_load/"

	// SURFACE_ID identifies the drawing surface the load chart is painted onto
	SURFACE_ID = "loadChart"

	// CHART_TITLE is defined for the chart but hidden by default
	CHART_TITLE = "CPU / Memory utilization percentage"

	// DEFAULT_CHART_WIDTH and DEFAULT_CHART_HEIGHT size the surface in cells
	DEFAULT_CHART_WIDTH  = 80
	DEFAULT_CHART_HEIGHT = 20

	// CPU_RATE_INTERVAL is the time window in seconds used to calculate CPU usage rates
	CPU_RATE_INTERVAL = 60
)

// CPURateIntervalString returns the CPU rate interval formatted for Prometheus queries (e.g., "60s")
func CPURateIntervalString() string {
	return fmt.Sprintf("%ds", CPU_RATE_INTERVAL)
}

// DefaultWindow is the range a Prometheus source covers when none is configured
func DefaultWindow() time.Duration {
	return time.Hour
}

// DefaultStep is the resolution of a Prometheus range query when none is configured
func DefaultStep() time.Duration {
	return time.Minute
}
