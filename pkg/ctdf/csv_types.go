package ctdf

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a time.Time that round-trips through the ledger CSV files
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) MarshalCSV() (string, error) {
	if t.IsZero() {
		return "", nil
	}

	return t.Format(LedgerDateTimeFormat), nil
}

func (t *Timestamp) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return err
	}

	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(t.Format(LedgerDateTimeFormat))
}

// NullFloat is a float column that is written as an empty cell when invalid
type NullFloat struct {
	Value float64
	Valid bool
}

func NewNullFloat(value float64) NullFloat {
	return NullFloat{Value: value, Valid: true}
}

func (f *NullFloat) MarshalCSV() (string, error) {
	if !f.Valid {
		return "", nil
	}

	return strconv.FormatFloat(f.Value, 'f', -1, 64), nil
}

func (f *NullFloat) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "nan") {
		*f = NullFloat{}
		return nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}

	*f = NewNullFloat(parsed)
	return nil
}

func (f NullFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(f.Value)
}
