package ledger

import (
	"time"

	"github.com/sourcegraph/conc/pool"
)

const defaultRebuildWorkers = 4

// RebuildAll rebuilds the daily summary of every given raw ledger. Each worker owns
// a single service day file so no two workers ever touch the same path.
func (l *Ledger) RebuildAll(rawPaths []string, binWidth time.Duration, workers int) ([]string, error) {
	if workers <= 0 {
		workers = defaultRebuildWorkers
	}

	p := pool.NewWithResults[string]().WithErrors().WithMaxGoroutines(workers)

	for _, rawPath := range rawPaths {
		rawPath := rawPath

		p.Go(func() (string, error) {
			return l.RebuildDaily(rawPath, binWidth)
		})
	}

	return p.Wait()
}
