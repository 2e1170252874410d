package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/ledger"
)

func writeRaw(t *testing.T, l *ledger.Ledger, pollAt time.Time, delay float64) string {
	t.Helper()

	path, err := l.AppendRaw([]ctdf.PollSummary{
		{
			PollAtUTC:           ctdf.NewTimestamp(pollAt.UTC()),
			PollAtLocal:         ctdf.NewTimestamp(pollAt),
			StopID:              "S1",
			LineCode:            "RER A",
			MeanDelaySeconds:    delay,
			MeanLatenessSeconds: delay,
			N:                   1,
			NPos:                1,
		},
		{
			PollAtUTC:   ctdf.NewTimestamp(pollAt.UTC()),
			PollAtLocal: ctdf.NewTimestamp(pollAt),
			StopID:      "S2",
			LineCode:    "RER A",
			N:           1,
		},
	}, pollAt)
	require.NoError(t, err)

	return path
}

func TestMirrorUpsertsByLedgerKey(t *testing.T) {
	ctx := context.Background()
	directory := t.TempDir()

	l := &ledger.Ledger{
		RawDirectory:   filepath.Join(directory, "rer_raw"),
		DailyDirectory: filepath.Join(directory, "rer_daily"),
		Location:       time.UTC,
		Cutover:        time.Date(0, 1, 1, 2, 30, 0, 0, time.UTC),
	}

	first := writeRaw(t, l, time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC), 30)
	second := writeRaw(t, l, time.Date(2025, 2, 4, 8, 0, 0, 0, time.UTC), 60)

	dbPath := filepath.Join(directory, "archive.sqlite")

	written, err := Mirror(ctx, dbPath, []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, 4, written)

	// mirroring the same ledgers again replaces rows instead of duplicating them
	writeRaw(t, l, time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC), 45)
	_, err = Mirror(ctx, dbPath, []string{first, second})
	require.NoError(t, err)

	archive, err := Connect(ctx, dbPath)
	require.NoError(t, err)
	defer archive.Close()

	total, err := archive.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, total)

	day, err := archive.Count(ctx, "2025-02-03")
	require.NoError(t, err)
	assert.Equal(t, 2, day)

	var delay float64
	err = archive.conn.QueryRowContext(ctx,
		"SELECT mean_delay_s FROM raw_poll WHERE service_day = ? AND stop_id = ?", "2025-02-03", "S1",
	).Scan(&delay)
	require.NoError(t, err)
	assert.Equal(t, 45.0, delay)
}

func TestMirrorRejectsUnnamedLedger(t *testing.T) {
	directory := t.TempDir()

	_, err := Mirror(context.Background(), filepath.Join(directory, "archive.sqlite"), []string{filepath.Join(directory, "notes.csv")})
	assert.Error(t, err)
}
