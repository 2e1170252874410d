package ctdf

import (
	"strings"
	"time"
)

// PollSummary aggregates every kept arrival event of one snapshot for a single stop and line.
// The (PollAtUTC, StopID, LineCode) tuple is unique within a raw ledger file.
type PollSummary struct {
	PollAtUTC   Timestamp `csv:"poll_at_utc" json:"poll_at_utc"`
	PollAtLocal Timestamp `csv:"poll_at_local" json:"poll_at_local"`

	StopID   string `csv:"stop_id" json:"stop_id"`
	LineCode string `csv:"line_code" json:"line_code"`

	MeanDelaySeconds    float64 `csv:"mean_delay_s" json:"mean_delay_s"`
	MeanLatenessSeconds float64 `csv:"mean_lateness_s" json:"mean_lateness_s"`

	N    int `csv:"n" json:"n"`
	NNeg int `csv:"n_neg" json:"n_neg"`
	NPos int `csv:"n_pos" json:"n_pos"`
}

type PollSummaryKey struct {
	PollAtUTC int64
	StopID    string
	LineCode  string
}

func (p *PollSummary) Key() PollSummaryKey {
	return PollSummaryKey{
		PollAtUTC: p.PollAtUTC.UnixNano(),
		StopID:    p.StopID,
		LineCode:  p.LineCode,
	}
}

// ComparePollSummaries orders rows by their ledger key
func ComparePollSummaries(a, b PollSummary) int {
	if c := a.PollAtUTC.Compare(b.PollAtUTC.Time); c != 0 {
		return c
	}
	if c := strings.Compare(a.StopID, b.StopID); c != 0 {
		return c
	}
	return strings.Compare(a.LineCode, b.LineCode)
}

// PollAt returns the poll instant in the given location
func (p *PollSummary) PollAt(location *time.Location) time.Time {
	if !p.PollAtLocal.IsZero() {
		return p.PollAtLocal.In(location)
	}
	return p.PollAtUTC.In(location)
}
