package scheduler

import (
	"math/rand"
	"time"
)

// Bounds of the jittered delay between two pings
const (
	MinInterval = 10 * time.Minute
	MaxInterval = 14 * time.Minute
)

// IntervalFunc produces the delay until the next ping
type IntervalFunc func() time.Duration

// RandomInterval returns a delay drawn uniformly from [MinInterval, MaxInterval),
// floored to whole milliseconds
func RandomInterval() time.Duration {
	minMs := float64(MinInterval.Milliseconds())
	maxMs := float64(MaxInterval.Milliseconds())

	ms := int64(rand.Float64()*(maxMs-minMs) + minMs)
	return time.Duration(ms) * time.Millisecond
}
