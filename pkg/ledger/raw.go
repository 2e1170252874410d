package ledger

import (
	"errors"
	"io/fs"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"golang.org/x/exp/slices"
)

// AppendRaw merges rows into the raw ledger of the service day owning pollLocal.
// Rows sharing a (poll_at_utc, stop_id, line_code) key with an existing row replace it,
// so re-appending the same poll is a no-op on content. An empty row set writes nothing
// and returns an empty path.
func (l *Ledger) AppendRaw(rows []ctdf.PollSummary, pollLocal time.Time) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	serviceDay := l.ServiceDay(pollLocal)
	path := l.RawPath(serviceDay)

	existing, err := ReadRaw(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	merged := MergePollSummaries(existing, rows)

	if err := writeCSV(path, &merged); err != nil {
		return "", err
	}

	log.Info().
		Str("serviceday", serviceDay).
		Str("path", path).
		Int("existing", len(existing)).
		Int("appended", len(rows)).
		Int("total", len(merged)).
		Msg("Merged poll into raw ledger")

	return path, nil
}

// MergePollSummaries concatenates current and incoming, keeps the last written row
// for each key and returns the result sorted by key
func MergePollSummaries(current []ctdf.PollSummary, incoming []ctdf.PollSummary) []ctdf.PollSummary {
	all := make([]ctdf.PollSummary, 0, len(current)+len(incoming))
	all = append(all, current...)
	all = append(all, incoming...)

	latest := map[ctdf.PollSummaryKey]int{}
	for i := range all {
		latest[all[i].Key()] = i
	}

	merged := make([]ctdf.PollSummary, 0, len(latest))
	for i := range all {
		if latest[all[i].Key()] == i {
			merged = append(merged, all[i])
		}
	}

	slices.SortStableFunc(merged, ctdf.ComparePollSummaries)

	return merged
}
