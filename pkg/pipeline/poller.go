// Package pipeline drives a poll cycle: fetch a snapshot, flatten and filter its stop
// calls, aggregate them per stop and line and merge the result into the ledgers.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/clock"
	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/travigo/rerdelay/pkg/metrics"
	"github.com/travigo/rerdelay/pkg/prim"
	"github.com/travigo/rerdelay/pkg/siri_et"
)

type SnapshotFetcher interface {
	FetchEstimatedTimetable(ctx context.Context) ([]byte, error)
}

type Poller struct {
	Settings config.Settings
	Fetcher  SnapshotFetcher
	Ledger   *ledger.Ledger
	Clock    clock.Clock
}

func NewPoller(settings config.Settings) *Poller {
	return &Poller{
		Settings: settings,
		Fetcher:  prim.NewClient(settings),
		Ledger:   ledger.New(settings),
		Clock:    clock.RealClock{},
	}
}

type CycleResult struct {
	CycleID string

	PollAtUTC   time.Time
	PollAtLocal time.Time

	EventsFlattened int
	EventsKept      int
	Rows            int

	// Both paths are empty when the snapshot produced no rows
	RawPath   string
	DailyPath string
}

// RunOnce performs a single cycle. A fetch failure leaves the ledgers untouched; an
// unusable payload counts as a snapshot without events.
func (p *Poller) RunOnce(ctx context.Context) (*CycleResult, error) {
	result := &CycleResult{CycleID: uuid.New().String()}
	cycleLog := log.With().Str("cycle", result.CycleID).Logger()

	body, err := p.Fetcher.FetchEstimatedTimetable(ctx)
	if err != nil {
		metrics.PollCycles.WithLabelValues("fetch_error").Inc()
		cycleLog.Error().Err(err).Msg("Failed to fetch snapshot")
		return nil, err
	}

	events := p.decodeEvents(body, cycleLog)
	result.EventsFlattened = len(events)
	metrics.EventsFlattened.Add(float64(len(events)))

	events = FilterEvents(events, p.Settings.Lines, p.Settings.LeadTimeHorizon())
	result.EventsKept = len(events)
	metrics.EventsKept.Add(float64(len(events)))

	aggregate := AggregatePoll(events, p.Settings.Location(), p.pollClock(), p.Settings.Precision())
	result.PollAtUTC = aggregate.PollAtUTC
	result.PollAtLocal = aggregate.PollAtLocal
	result.Rows = len(aggregate.Rows)

	cycleLog.Debug().
		Int("flattened", result.EventsFlattened).
		Int("kept", result.EventsKept).
		Int("rows", result.Rows).
		Time("pollat", result.PollAtUTC).
		Msg("Aggregated snapshot")

	if len(aggregate.Rows) == 0 {
		metrics.PollCycles.WithLabelValues("empty").Inc()
		cycleLog.Info().Int("flattened", result.EventsFlattened).Msg("No events kept, ledgers untouched")
		return result, nil
	}

	result.RawPath, err = p.Ledger.AppendRaw(aggregate.Rows, aggregate.PollAtLocal)
	if err != nil {
		metrics.PollCycles.WithLabelValues("ledger_error").Inc()
		return nil, err
	}
	metrics.LedgerRowsWritten.Add(float64(result.Rows))

	result.DailyPath, err = p.Ledger.RebuildDaily(result.RawPath, p.Settings.BinWidth())
	if err != nil {
		metrics.PollCycles.WithLabelValues("ledger_error").Inc()
		return nil, err
	}

	metrics.PollCycles.WithLabelValues("success").Inc()
	metrics.LastSuccessfulPoll.Set(float64(result.PollAtUTC.Unix()))

	cycleLog.Info().
		Int("kept", result.EventsKept).
		Int("rows", result.Rows).
		Str("raw", result.RawPath).
		Str("daily", result.DailyPath).
		Msg("Poll cycle complete")

	return result, nil
}

func (p *Poller) decodeEvents(body []byte, cycleLog zerolog.Logger) []ctdf.ArrivalEvent {
	siri, err := siri_et.Decode(body)
	if err != nil {
		cycleLog.Warn().Err(err).Int("bytes", len(body)).Msg("Unusable snapshot payload, treating as empty")
		return nil
	}

	return siri_et.Flatten(siri)
}

func (p *Poller) pollClock() clock.Clock {
	if p.Clock == nil {
		return clock.RealClock{}
	}
	return p.Clock
}

// Watch runs cycles back to back, starting one every interval. Cycles never overlap;
// a slow cycle delays the next one. Fetch failures are logged and the loop carries
// on, ledger failures stop it.
func (p *Poller) Watch(ctx context.Context, interval time.Duration) error {
	log.Info().
		Dur("interval", interval).
		Strs("lines", p.Settings.Lines).
		Str("raw", p.Settings.RawDirectory).
		Str("daily", p.Settings.DailyDirectory).
		Msg("Starting poller")

	for {
		startTime := time.Now()

		_, err := p.RunOnce(ctx)
		if err != nil {
			var ioError *ledger.IOError
			if errors.As(err, &ioError) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
		}

		wait := interval - time.Since(startTime)
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("Stopping poller")
			return nil
		case <-timer.C:
		}
	}
}
