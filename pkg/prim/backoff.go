package prim

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultSchedule is the wait before each attempt; the first attempt is immediate
var DefaultSchedule = []time.Duration{0, 1 * time.Second, 2 * time.Second, 4 * time.Second}

// scheduleBackOff replays a fixed list of waits and then stops
type scheduleBackOff struct {
	waits   []time.Duration
	attempt int
}

func newScheduleBackOff(schedule []time.Duration) *scheduleBackOff {
	var waits []time.Duration
	if len(schedule) > 1 {
		waits = schedule[1:]
	}

	return &scheduleBackOff{waits: waits}
}

func (b *scheduleBackOff) NextBackOff() time.Duration {
	if b.attempt >= len(b.waits) {
		return backoff.Stop
	}

	wait := b.waits[b.attempt]
	b.attempt++

	return wait
}

func (b *scheduleBackOff) Reset() {
	b.attempt = 0
}
