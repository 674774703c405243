package handler

import (
	"net/http"
	"time"

	"github.com/dandantas/keepwarm/internal/model"
	"github.com/dandantas/keepwarm/internal/scheduler"
)

// StatusHandler reports scheduling state
type StatusHandler struct {
	state        *scheduler.State
	targetURL    string
	cronSchedule string
	now          func() time.Time
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(state *scheduler.State, targetURL, cronSchedule string) *StatusHandler {
	return &StatusHandler{
		state:        state,
		targetURL:    targetURL,
		cronSchedule: cronSchedule,
		now:          time.Now,
	}
}

// Status handles GET /api/status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, h.build(h.now()))
}

func (h *StatusHandler) build(now time.Time) model.Status {
	snap := h.state.Snapshot(now)

	status := model.Status{
		IsRunning:         true,
		TargetURL:         h.targetURL,
		CronSchedule:      h.cronSchedule,
		Message:           scheduler.Message,
		NextPingTime:      model.FormatTimestamp(snap.NextPingAt),
		NextPingInSeconds: int64(snap.NextPingIn / time.Second),
	}
	if snap.LastResult != nil {
		last := snap.LastResult.Timestamp
		status.LastPingTime = &last
	}

	return status
}
