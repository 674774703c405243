package handler

import (
	"net/http"
	"time"
)

// SchedulerProbe reports whether the scheduler loop is active
type SchedulerProbe interface {
	Running() bool
}

// HealthHandler handles service health and readiness checks
type HealthHandler struct {
	scheduler        SchedulerProbe
	schedulerEnabled bool
	startTime        time.Time
	version          string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(scheduler SchedulerProbe, schedulerEnabled bool, version string) *HealthHandler {
	return &HealthHandler{
		scheduler:        scheduler,
		schedulerEnabled: schedulerEnabled,
		startTime:        time.Now(),
		version:          version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Timestamp     string `json:"timestamp"`
	Scheduler     string `json:"scheduler"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ReadyResponse represents the readiness check response
type ReadyResponse struct {
	Ready     bool   `json:"ready"`
	Scheduler string `json:"scheduler"`
}

// Health returns the service health status
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Scheduler:     h.schedulerState(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	writeJSON(w, http.StatusOK, response)
}

// Ready returns the service readiness status
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	state := h.schedulerState()
	ready := state != "stopped"

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, ReadyResponse{
		Ready:     ready,
		Scheduler: state,
	})
}

func (h *HealthHandler) schedulerState() string {
	switch {
	case !h.schedulerEnabled:
		return "disabled"
	case h.scheduler.Running():
		return "running"
	default:
		return "stopped"
	}
}
