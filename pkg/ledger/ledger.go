// Package ledger persists poll summaries into per service day CSV files and derives
// the binned daily summaries from them.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/util"
)

type Ledger struct {
	RawDirectory   string
	DailyDirectory string

	Location *time.Location
	Cutover  time.Time
}

func New(settings config.Settings) *Ledger {
	return &Ledger{
		RawDirectory:   settings.RawDirectory,
		DailyDirectory: settings.DailyDirectory,
		Location:       settings.Location(),
		Cutover:        settings.Cutover(),
	}
}

// ServiceDay names the service day owning a poll. A poll belongs to the previous
// calendar day while its local wall clock is before the cutover and less time than the
// cutover has elapsed since local midnight; either one reaching the cutover starts the new
// day. On DST changes this keeps service days moving forward through the skipped or
// repeated hour.
func (l *Ledger) ServiceDay(pollLocal time.Time) string {
	return ServiceDay(pollLocal.In(l.location()), l.Cutover)
}

func ServiceDay(pollLocal time.Time, cutover time.Time) string {
	cutoverOffset := util.TimeOfDay(cutover)

	midnight := time.Date(pollLocal.Year(), pollLocal.Month(), pollLocal.Day(), 0, 0, 0, 0, pollLocal.Location())
	beforeCutover := util.TimeOfDay(pollLocal) < cutoverOffset && pollLocal.Sub(midnight) < cutoverOffset

	// civil date arithmetic, free of the poll location's offsets
	day := time.Date(pollLocal.Year(), pollLocal.Month(), pollLocal.Day(), 12, 0, 0, 0, time.UTC)
	if beforeCutover {
		day = day.AddDate(0, 0, -1)
	}

	return day.Format(ctdf.ServiceDayFormat)
}

func (l *Ledger) RawPath(serviceDay string) string {
	return filepath.Join(l.RawDirectory, serviceDay+".csv")
}

// DailyPath mirrors the raw ledger file name into the daily directory
func (l *Ledger) DailyPath(rawPath string) string {
	return filepath.Join(l.DailyDirectory, filepath.Base(rawPath))
}

// RawFiles lists the raw ledgers in service day order
func (l *Ledger) RawFiles() ([]string, error) {
	return listServiceDayFiles(l.RawDirectory)
}

// DailyFiles lists the daily summaries in service day order
func (l *Ledger) DailyFiles() ([]string, error) {
	return listServiceDayFiles(l.DailyDirectory)
}

func (l *Ledger) location() *time.Location {
	if l.Location == nil {
		return time.UTC
	}
	return l.Location
}

func listServiceDayFiles(directory string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(directory, "*.csv"))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, match := range matches {
		name := filepath.Base(match)
		if _, err := time.Parse(ctdf.ServiceDayFormat, name[:len(name)-len(".csv")]); err != nil {
			continue
		}
		files = append(files, match)
	}
	sort.Strings(files)

	return files, nil
}

// ServiceDayFromPath extracts the service day from a ledger file name
func ServiceDayFromPath(path string) (string, error) {
	name := filepath.Base(path)
	day := name[:len(name)-len(filepath.Ext(name))]

	if _, err := time.Parse(ctdf.ServiceDayFormat, day); err != nil {
		return "", fmt.Errorf("%s is not named after a service day", path)
	}

	return day, nil
}

func ensureDirectory(directory string) error {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: directory, Err: err}
	}
	return nil
}
