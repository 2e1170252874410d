package pipeline

import (
	"time"

	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/util"
	"golang.org/x/exp/slices"
)

// FilterEvents keeps the events of the tracked lines that have a stop, a delay and a
// scheduled time and whose lead time lies within [0, horizon]. Kept events carry the
// canonical line code. The input slice is not modified.
func FilterEvents(events []ctdf.ArrivalEvent, lines []string, horizon time.Duration) []ctdf.ArrivalEvent {
	tracked := map[string]bool{}
	for _, line := range lines {
		if canonical, ok := ctdf.CanonicalLineCode(line); ok {
			tracked[canonical] = true
		}
	}

	horizonSeconds := horizon.Seconds()

	kept := slices.Clone(events)
	util.InPlaceFilter(&kept, func(event ctdf.ArrivalEvent) bool {
		lineCode, ok := ctdf.CanonicalLineCode(event.LineCode)
		if !ok || !tracked[lineCode] {
			return false
		}

		if event.StopID == "" {
			return false
		}

		if event.DelaySeconds == nil || event.ScheduledTime == nil || event.LeadTimeSeconds == nil {
			return false
		}

		lead := *event.LeadTimeSeconds
		return lead >= 0 && lead <= horizonSeconds
	})

	for i := range kept {
		kept[i].LineCode, _ = ctdf.CanonicalLineCode(kept[i].LineCode)
	}

	return kept
}
