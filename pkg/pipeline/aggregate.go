package pipeline

import (
	"strings"
	"time"

	"github.com/travigo/rerdelay/pkg/clock"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/util"
	"golang.org/x/exp/slices"
)

// PollAggregate is one snapshot reduced to a row per stop and line
type PollAggregate struct {
	PollAtUTC   time.Time
	PollAtLocal time.Time

	Rows []ctdf.PollSummary
}

type stopLineKey struct {
	stopID   string
	lineCode string
}

type stopLineAccumulator struct {
	delay    float64
	lateness float64

	n    int
	nNeg int
	nPos int
}

// AggregatePoll groups filtered events by stop and line. The poll instant is the first
// known snapshot time of the events, or the clock when none has one, rounded to precision.
func AggregatePoll(events []ctdf.ArrivalEvent, location *time.Location, fallback clock.Clock, precision time.Duration) PollAggregate {
	pollAt := pollInstant(events, fallback).Round(precision).UTC()

	aggregate := PollAggregate{
		PollAtUTC:   pollAt,
		PollAtLocal: pollAt.In(location),
		Rows:        []ctdf.PollSummary{},
	}

	accumulators := map[stopLineKey]*stopLineAccumulator{}
	for _, event := range events {
		if event.DelaySeconds == nil {
			continue
		}
		delay := *event.DelaySeconds

		key := stopLineKey{stopID: event.StopID, lineCode: event.LineCode}
		accumulator, exists := accumulators[key]
		if !exists {
			accumulator = &stopLineAccumulator{}
			accumulators[key] = accumulator
		}

		accumulator.delay += delay
		if delay > 0 {
			accumulator.lateness += delay
			accumulator.nPos++
		} else if delay < 0 {
			accumulator.nNeg++
		}
		accumulator.n++
	}

	keys := make([]stopLineKey, 0, len(accumulators))
	for key := range accumulators {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b stopLineKey) int {
		if c := strings.Compare(a.stopID, b.stopID); c != 0 {
			return c
		}
		return strings.Compare(a.lineCode, b.lineCode)
	})

	for _, key := range keys {
		accumulator := accumulators[key]
		n := float64(accumulator.n)

		aggregate.Rows = append(aggregate.Rows, ctdf.PollSummary{
			PollAtUTC:           ctdf.NewTimestamp(aggregate.PollAtUTC),
			PollAtLocal:         ctdf.NewTimestamp(aggregate.PollAtLocal),
			StopID:              key.stopID,
			LineCode:            key.lineCode,
			MeanDelaySeconds:    util.RoundTo(accumulator.delay/n, 3),
			MeanLatenessSeconds: util.RoundTo(accumulator.lateness/n, 3),
			N:                   accumulator.n,
			NNeg:                accumulator.nNeg,
			NPos:                accumulator.nPos,
		})
	}

	return aggregate
}

func pollInstant(events []ctdf.ArrivalEvent, fallback clock.Clock) time.Time {
	for _, event := range events {
		if event.SnapshotTime != nil {
			return *event.SnapshotTime
		}
	}

	return fallback.Now()
}
