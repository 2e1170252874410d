package ctdf

const XSDDateTimeFormat = "2006-01-02T15:04:05-07:00"

// LedgerDateTimeFormat is used for every instant persisted in the ledger files.
// A zero UTC offset is rendered as +00:00 rather than Z.
const LedgerDateTimeFormat = "2006-01-02T15:04:05.000-07:00"

const ServiceDayFormat = "2006-01-02"

const (
	BinLabelMinuteFormat = "2006-01-02 15:04"
	BinLabelSecondFormat = "2006-01-02 15:04:05"
)
