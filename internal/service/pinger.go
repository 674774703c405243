package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dandantas/keepwarm/internal/model"
	"github.com/google/uuid"
)

// maxDrainBytes bounds how much of a response body is read before closing
const maxDrainBytes = 64 * 1024

// Pinger issues a single GET against a target and reports the outcome
type Pinger struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	now        func() time.Time
}

// NewPinger creates a new pinger
func NewPinger(httpClient *http.Client, userAgent string, timeout time.Duration) *Pinger {
	return &Pinger{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Ping makes exactly one attempt against targetURL. Failures are captured in
// the returned record and never returned as errors.
func (p *Pinger) Ping(ctx context.Context, targetURL string) model.PingRecord {
	id := uuid.New().String()

	slog.Info("Executing ping", "ping_id", id, "url", targetURL)

	start := p.now()
	statusCode, err := p.get(ctx, targetURL)
	end := p.now()

	record := model.PingRecord{
		ID:             id,
		Timestamp:      model.FormatTimestamp(end),
		URL:            targetURL,
		ResponseTimeMs: end.Sub(start).Milliseconds(),
	}

	if err != nil {
		record.Status = model.StatusError
		record.Error = err.Error()

		slog.Error("Ping failed",
			"ping_id", id,
			"url", targetURL,
			"duration_ms", record.ResponseTimeMs,
			"error", record.Error,
		)
		return record
	}

	record.Status = strconv.Itoa(statusCode)
	record.Success = statusCode >= 200 && statusCode < 300

	slog.Info("Ping completed",
		"ping_id", id,
		"url", targetURL,
		"status_code", statusCode,
		"success", record.Success,
		"duration_ms", record.ResponseTimeMs,
	)

	return record
}

// get performs the request and returns the response status code
func (p *Pinger) get(ctx context.Context, targetURL string) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, targetURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	return resp.StatusCode, nil
}
