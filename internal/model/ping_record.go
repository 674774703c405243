package model

import "time"

// StatusError marks a ping that never got an HTTP response
const StatusError = "ERROR"

// TimestampLayout is an ISO 8601 UTC layout with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// PingRecord represents one observation of a ping attempt
type PingRecord struct {
	ID             string `json:"id"`
	Timestamp      string `json:"timestamp"`
	URL            string `json:"url"`
	Status         string `json:"status"`          // HTTP status code as text, or "ERROR"
	ResponseTimeMs int64  `json:"responseTime"`    // In milliseconds
	Success        bool   `json:"success"`         // True only for 2xx responses
	Error          string `json:"error,omitempty"` // Set only when Status is "ERROR"
}

// Failed reports whether the request itself failed at the transport level
func (p *PingRecord) Failed() bool {
	return p.Status == StatusError
}

// FormatTimestamp converts t to the wire timestamp format
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CompletedAt parses the record timestamp back into a time.Time
func (p *PingRecord) CompletedAt() (time.Time, error) {
	return time.Parse(TimestampLayout, p.Timestamp)
}
