package bookings

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator hands out RDS-<unix millis> ids. Two intakes in the same
// millisecond get consecutive values instead of the same id.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return IDPrefix + strconv.FormatInt(ms, 10)
}
