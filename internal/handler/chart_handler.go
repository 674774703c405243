package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartHandler renders the ping log as a latency chart
type ChartHandler struct {
	logs LogSource
}

// NewChartHandler creates a new chart handler
func NewChartHandler(logs LogSource) *ChartHandler {
	return &ChartHandler{logs: logs}
}

// Latency handles GET /api/ping-chart.png
func (h *ChartHandler) Latency(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var (
		times  []time.Time
		values []float64
	)

	// Log is newest first; the chart runs oldest to newest
	records := h.logs.Logs()
	slices.Reverse(records)
	for _, rec := range records {
		completedAt, err := rec.CompletedAt()
		if err != nil {
			continue
		}
		times = append(times, completedAt)
		values = append(values, float64(rec.ResponseTimeMs))
	}

	if len(times) < 2 || !times[len(times)-1].After(times[0]) {
		writeError(w, http.StatusNotFound, "At least two pings are needed to draw a chart")
		return
	}

	graph := chart.Chart{
		Title:  "Ping Response Time",
		Width:  800,
		Height: 300,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeMinuteValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Response time (ms)",
			Range: &chart.ContinuousRange{Min: 0, Max: slices.Max(values)*1.1 + 1},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.Color{R: 200, G: 200, B: 200, A: 255},
				StrokeWidth: 1.0,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "response time",
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					StrokeWidth: 2,
				},
				XValues: times,
				YValues: values,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		slog.Error("Failed to render latency chart", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
