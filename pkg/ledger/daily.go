package ledger

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/util"
	"golang.org/x/exp/slices"
)

// RebuildDaily recomputes the daily summary of a raw ledger from scratch and
// overwrites any previous daily file for that service day
func (l *Ledger) RebuildDaily(rawPath string, binWidth time.Duration) (string, error) {
	rows, err := ReadRaw(rawPath)
	if err != nil {
		return "", err
	}

	bins := Rebin(rows, binWidth, l.location())

	dailyPath := l.DailyPath(rawPath)
	if err := writeCSV(dailyPath, &bins); err != nil {
		return "", err
	}

	log.Info().
		Str("path", dailyPath).
		Int("rawrows", len(rows)).
		Int("bins", len(bins)).
		Str("binwidth", binWidth.String()).
		Msg("Rebuilt daily summary")

	return dailyPath, nil
}

type binKey struct {
	start    int64
	stopID   string
	lineCode string
}

type binAccumulator struct {
	start    time.Time
	stopID   string
	lineCode string

	weightedDelay    float64
	weightedLateness float64

	n    int
	nNeg int
	nPos int

	lastPollUTC   time.Time
	lastPollLocal time.Time
}

// Rebin groups raw rows by local time bucket, stop and line. Means are weighted by
// each row's event count; a bucket without events has no mean.
func Rebin(rows []ctdf.PollSummary, binWidth time.Duration, location *time.Location) []ctdf.DailyBin {
	accumulators := map[binKey]*binAccumulator{}

	for i := range rows {
		row := &rows[i]

		pollLocal := row.PollAt(location)
		start := util.FloorToInterval(pollLocal, binWidth)

		key := binKey{start: start.UnixNano(), stopID: row.StopID, lineCode: row.LineCode}
		accumulator, exists := accumulators[key]
		if !exists {
			accumulator = &binAccumulator{start: start, stopID: row.StopID, lineCode: row.LineCode}
			accumulators[key] = accumulator
		}

		accumulator.weightedDelay += row.MeanDelaySeconds * float64(row.N)
		accumulator.weightedLateness += row.MeanLatenessSeconds * float64(row.N)
		accumulator.n += row.N
		accumulator.nNeg += row.NNeg
		accumulator.nPos += row.NPos

		if row.PollAtUTC.After(accumulator.lastPollUTC) {
			accumulator.lastPollUTC = row.PollAtUTC.UTC()
		}
		if pollLocal.After(accumulator.lastPollLocal) {
			accumulator.lastPollLocal = pollLocal
		}
	}

	ordered := make([]*binAccumulator, 0, len(accumulators))
	for _, accumulator := range accumulators {
		ordered = append(ordered, accumulator)
	}
	slices.SortFunc(ordered, func(a, b *binAccumulator) int {
		if c := a.start.Compare(b.start); c != 0 {
			return c
		}
		if c := strings.Compare(a.stopID, b.stopID); c != 0 {
			return c
		}
		return strings.Compare(a.lineCode, b.lineCode)
	})

	labelFormat := ctdf.BinLabelSecondFormat
	if binWidth%time.Minute == 0 {
		labelFormat = ctdf.BinLabelMinuteFormat
	}

	bins := make([]ctdf.DailyBin, 0, len(ordered))
	for _, accumulator := range ordered {
		bin := ctdf.DailyBin{
			PollBinLocal:         accumulator.start.Format(labelFormat),
			PollBinStartLocalISO: accumulator.start.Format(ctdf.XSDDateTimeFormat),
			StopID:               accumulator.stopID,
			LineCode:             accumulator.lineCode,
			N:                    accumulator.n,
			NNeg:                 accumulator.nNeg,
			NPos:                 accumulator.nPos,
			LastPollAtUTC:        ctdf.NewTimestamp(accumulator.lastPollUTC),
			LastPollAtLocal:      ctdf.NewTimestamp(accumulator.lastPollLocal),
		}

		if accumulator.n != 0 {
			n := float64(accumulator.n)
			bin.MeanDelaySeconds = ctdf.NewNullFloat(util.RoundTo(accumulator.weightedDelay/n, 3))
			bin.MeanLatenessSeconds = ctdf.NewNullFloat(util.RoundTo(accumulator.weightedLateness/n, 3))
		}

		bins = append(bins, bin)
	}

	return bins
}
