package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rerdelay_poll_cycles_total",
		Help: "Total number of poll cycles, labelled by outcome.",
	}, []string{"outcome"})

	FetchAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerdelay_fetch_attempts_total",
		Help: "Total number of HTTP attempts made against the estimated timetable endpoint.",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rerdelay_fetch_duration_seconds",
		Help:    "Time spent downloading one snapshot, retries included.",
		Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
	})

	EventsFlattened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerdelay_events_flattened_total",
		Help: "Total number of stop calls extracted from snapshots.",
	})

	EventsKept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerdelay_events_kept_total",
		Help: "Total number of stop calls kept after line and lead time filtering.",
	})

	LedgerRowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rerdelay_ledger_rows_written_total",
		Help: "Total number of poll summary rows merged into raw ledgers.",
	})

	LastSuccessfulPoll = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rerdelay_last_successful_poll_timestamp_seconds",
		Help: "Unix time of the snapshot of the last successful poll cycle.",
	})
)
