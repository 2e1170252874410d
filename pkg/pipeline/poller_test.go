package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/rerdelay/pkg/clock"
	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/ledger"
	"github.com/travigo/rerdelay/pkg/prim"
)

type fakeFetcher struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeFetcher) FetchEstimatedTimetable(ctx context.Context) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

func testSettings(t *testing.T) config.Settings {
	t.Helper()

	for _, key := range []string{
		"RERDELAY_TIMEZONE", "RERDELAY_SERVICE_DAY_CUTOVER", "RERDELAY_TIME_PRECISION", "RERDELAY_LEAD_HORIZON",
		"RERDELAY_BIN_SECONDS", "RERDELAY_LINES", "RERDELAY_RAW_DIR", "RERDELAY_DAILY_DIR",
	} {
		t.Setenv(key, "")
	}

	directory := t.TempDir()
	settings, err := config.Load("", config.Overrides{
		RawDirectory:   filepath.Join(directory, "rer_raw"),
		DailyDirectory: filepath.Join(directory, "rer_daily"),
	}, false)
	require.NoError(t, err)

	return settings
}

func newTestPoller(t *testing.T, fetcher SnapshotFetcher) *Poller {
	settings := testSettings(t)

	return &Poller{
		Settings: settings,
		Fetcher:  fetcher,
		Ledger:   ledger.New(settings),
		Clock:    clock.NewMockClock(time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)),
	}
}

func TestRunOnceEndToEnd(t *testing.T) {
	body, err := os.ReadFile("testdata/two_lines.json")
	require.NoError(t, err)

	poller := newTestPoller(t, &fakeFetcher{body: body})

	result, err := poller.RunOnce(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.CycleID)
	assert.Equal(t, 4, result.EventsFlattened)
	assert.Equal(t, 2, result.EventsKept)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, poller.Ledger.RawPath("2025-02-03"), result.RawPath)
	assert.Equal(t, filepath.Join(poller.Settings.DailyDirectory, "2025-02-03.csv"), result.DailyPath)

	rows, err := ledger.ReadRaw(result.RawPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "STIF:StopPoint:Q:41087:", rows[0].StopID)
	assert.Equal(t, "RER D", rows[0].LineCode)
	assert.Equal(t, 0.0, rows[0].MeanDelaySeconds)
	assert.Equal(t, 1, rows[0].N)
	assert.Equal(t, 0, rows[0].NPos)

	assert.Equal(t, "STIF:StopPoint:Q:473921:", rows[1].StopID)
	assert.Equal(t, "RER B", rows[1].LineCode)
	assert.Equal(t, 90.0, rows[1].MeanDelaySeconds)
	assert.Equal(t, 1, rows[1].N)
	assert.Equal(t, 1, rows[1].NPos)

	bins, err := ledger.ReadDaily(result.DailyPath)
	require.NoError(t, err)
	require.Len(t, bins, 2)
	assert.Equal(t, "2025-02-03 09:00", bins[0].PollBinLocal)
}

func TestRunOnceTwiceIsIdempotent(t *testing.T) {
	body, err := os.ReadFile("testdata/two_lines.json")
	require.NoError(t, err)

	poller := newTestPoller(t, &fakeFetcher{body: body})

	first, err := poller.RunOnce(context.Background())
	require.NoError(t, err)
	before, err := os.ReadFile(first.RawPath)
	require.NoError(t, err)

	second, err := poller.RunOnce(context.Background())
	require.NoError(t, err)
	after, err := os.ReadFile(second.RawPath)
	require.NoError(t, err)

	assert.NotEqual(t, first.CycleID, second.CycleID)
	assert.Equal(t, string(before), string(after))
}

func TestRunOnceFetchErrorLeavesLedgerUntouched(t *testing.T) {
	fetchError := &prim.FetchError{URL: "http://example.invalid", Attempts: 4, Err: errors.New("connection refused")}
	poller := newTestPoller(t, &fakeFetcher{err: fetchError})

	result, err := poller.RunOnce(context.Background())
	assert.Nil(t, result)

	var target *prim.FetchError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 4, target.Attempts)

	_, statErr := os.Stat(poller.Settings.RawDirectory)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunOnceUnusablePayloadIsEmptySnapshot(t *testing.T) {
	for _, body := range []string{"<html>maintenance</html>", `{"Siri": {}}`, ""} {
		poller := newTestPoller(t, &fakeFetcher{body: []byte(body)})

		result, err := poller.RunOnce(context.Background())
		require.NoError(t, err)

		assert.Zero(t, result.EventsFlattened)
		assert.Zero(t, result.Rows)
		assert.Empty(t, result.RawPath)
		assert.Empty(t, result.DailyPath)
		assert.True(t, result.PollAtUTC.Equal(time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)))

		files, err := poller.Ledger.RawFiles()
		require.NoError(t, err)
		assert.Empty(t, files)
	}
}

func TestRunOnceLedgerErrorIsFatal(t *testing.T) {
	body, err := os.ReadFile("testdata/two_lines.json")
	require.NoError(t, err)

	poller := newTestPoller(t, &fakeFetcher{body: body})

	rawPath := poller.Ledger.RawPath("2025-02-03")
	require.NoError(t, os.MkdirAll(filepath.Dir(rawPath), 0o755))
	require.NoError(t, os.WriteFile(rawPath, []byte("poll_at_utc,poll_at_local,stop_id,line_code,mean_delay_s,mean_lateness_s,n,n_neg,n_pos\nbroken,,S,RER A,x,x,x,x,x\n"), 0o644))

	_, err = poller.RunOnce(context.Background())

	var ioError *ledger.IOError
	assert.ErrorAs(t, err, &ioError)
}

func TestWatchStopsOnLedgerError(t *testing.T) {
	body, err := os.ReadFile("testdata/two_lines.json")
	require.NoError(t, err)

	fetcher := &fakeFetcher{body: body}
	poller := newTestPoller(t, fetcher)

	rawPath := poller.Ledger.RawPath("2025-02-03")
	require.NoError(t, os.MkdirAll(filepath.Dir(rawPath), 0o755))
	require.NoError(t, os.WriteFile(rawPath, []byte("poll_at_utc,poll_at_local,stop_id,line_code,mean_delay_s,mean_lateness_s,n,n_neg,n_pos\nbroken,,S,RER A,x,x,x,x,x\n"), 0o644))

	err = poller.Watch(context.Background(), time.Hour)

	var ioError *ledger.IOError
	assert.ErrorAs(t, err, &ioError)
	assert.Equal(t, 1, fetcher.calls)
}

func TestWatchStopsOnCancel(t *testing.T) {
	poller := newTestPoller(t, &fakeFetcher{err: errors.New("offline")})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, poller.Watch(ctx, 10*time.Millisecond))
}
