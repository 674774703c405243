package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dandantas/keepwarm/internal/model"
	"github.com/dandantas/keepwarm/pkg/middleware"
)

// ManualPinger runs an on-demand ping
type ManualPinger interface {
	ManualPing(ctx context.Context) model.PingRecord
}

// LogSource lists recorded pings, newest first
type LogSource interface {
	Logs() []model.PingRecord
}

// PingHandler handles ping log and manual ping operations
type PingHandler struct {
	logs   LogSource
	pinger ManualPinger
}

// NewPingHandler creates a new ping handler
func NewPingHandler(logs LogSource, pinger ManualPinger) *PingHandler {
	return &PingHandler{
		logs:   logs,
		pinger: pinger,
	}
}

// Logs handles GET /api/ping-logs
func (h *PingHandler) Logs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, h.logs.Logs())
}

// Manual handles POST /api/manual-ping.
// The response is always 200; a failed ping is reported in the record body.
func (h *PingHandler) Manual(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	slog.Info("Manual ping requested",
		"correlation_id", middleware.GetCorrelationID(r.Context()),
	)

	// A client disconnect must not cancel a ping that has started
	record := h.pinger.ManualPing(context.WithoutCancel(r.Context()))

	writeJSON(w, http.StatusOK, record)
}
