package ctdf

// DailyBin is the count-weighted summary of all raw ledger rows of a stop and line
// whose local poll time falls in the same fixed-width bucket.
type DailyBin struct {
	PollBinLocal         string `csv:"poll_bin_local" json:"poll_bin_local"`
	PollBinStartLocalISO string `csv:"poll_bin_start_local_iso" json:"poll_bin_start_local_iso"`

	StopID   string `csv:"stop_id" json:"stop_id"`
	LineCode string `csv:"line_code" json:"line_code"`

	MeanDelaySeconds    NullFloat `csv:"mean_delay_s" json:"mean_delay_s"`
	MeanLatenessSeconds NullFloat `csv:"mean_lateness_s" json:"mean_lateness_s"`

	N    int `csv:"n" json:"n"`
	NNeg int `csv:"n_neg" json:"n_neg"`
	NPos int `csv:"n_pos" json:"n_pos"`

	LastPollAtUTC   Timestamp `csv:"last_poll_at_utc" json:"last_poll_at_utc"`
	LastPollAtLocal Timestamp `csv:"last_poll_at_local" json:"last_poll_at_local"`
}
