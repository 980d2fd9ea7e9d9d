// Package health provides health checking functionality for the patient application.
package health

import (
	"fmt"
	"math"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/hospi/interfaces"
)

// Compile-time check to ensure HealthCheckerImpl implements interfaces.HealthChecker
var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	sessions      interfaces.SessionStore
	startTime     time.Time
	sweepInterval time.Duration
	now           func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
// sweepInterval is the configured idle-session sweep period, used to detect a stalled scheduler.
func NewHealthChecker(sessions interfaces.SessionStore, sweepInterval time.Duration) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		sessions:      sessions,
		startTime:     time.Now(),
		sweepInterval: sweepInterval,
		now:           time.Now,
	}
}

// HealthCheck returns the health status, the report document and the HTTP status.
// The application keeps serving while degraded, so the HTTP status stays 200.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	now := h.now()
	stats := h.sessions.Stats()
	uptime := now.Sub(h.startTime)

	status = "healthy"
	httpStatus = http.StatusOK
	if h.sweepOverdue(stats.LastSweep, now) {
		status = "degraded"
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	lastSweep := ""
	if !stats.LastSweep.IsZero() {
		lastSweep = stats.LastSweep.Format(time.RFC3339)
	}

	data = map[string]any{
		"uptime":         formatUptimeHuman(uptime),
		"uptime_seconds": math.Round(uptime.Seconds()),
		"data": map[string]any{
			"active_sessions": stats.Active,
			"total_patients":  stats.TotalPatients,
			"last_sweep":      lastSweep,
		},
		"system": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb": int(m.Alloc / 1024 / 1024),
				"sys_mb":   int(m.Sys / 1024 / 1024),
				"num_gc":   m.NumGC,
			},
		},
	}

	return status, data, httpStatus
}

// sweepOverdue reports whether three sweep periods went by without a sweep
func (h *HealthCheckerImpl) sweepOverdue(lastSweep, now time.Time) bool {
	if h.sweepInterval <= 0 {
		return false
	}
	reference := lastSweep
	if reference.IsZero() {
		reference = h.startTime
	}
	return now.Sub(reference) > 3*h.sweepInterval
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
