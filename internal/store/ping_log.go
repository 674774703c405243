package store

import (
	"sync"

	"github.com/dandantas/keepwarm/internal/model"
)

// DefaultCapacity is the number of records kept when no size is configured
const DefaultCapacity = 20

// PingLog is a bounded, newest-first log of ping records.
// It is backed by a ring buffer; once full, each insert overwrites the oldest record.
type PingLog struct {
	mu      sync.RWMutex
	records []model.PingRecord
	head    int // index the next record is written to
	size    int
}

// NewPingLog creates a log holding at most capacity records
func NewPingLog(capacity int) *PingLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &PingLog{
		records: make([]model.PingRecord, capacity),
	}
}

// Add inserts a record at the front of the log
func (l *PingLog) Add(record model.PingRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records[l.head] = record
	l.head = (l.head + 1) % len(l.records)
	if l.size < len(l.records) {
		l.size++
	}
}

// List returns a copy of the log contents, newest first
func (l *PingLog) List() []model.PingRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.PingRecord, 0, l.size)
	for i := 1; i <= l.size; i++ {
		idx := (l.head - i + len(l.records)) % len(l.records)
		out = append(out, l.records[idx])
	}

	return out
}

// Len returns the number of records currently held
func (l *PingLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.size
}

// Cap returns the maximum number of records the log holds
func (l *PingLog) Cap() int {
	return len(l.records)
}
