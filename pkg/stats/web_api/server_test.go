package web_api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/rerdelay/pkg/ctdf"
	"github.com/travigo/rerdelay/pkg/ledger"
)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	directory := t.TempDir()
	l := &ledger.Ledger{
		RawDirectory:   filepath.Join(directory, "rer_raw"),
		DailyDirectory: filepath.Join(directory, "rer_daily"),
		Location:       time.UTC,
		Cutover:        time.Date(0, 1, 1, 2, 30, 0, 0, time.UTC),
	}

	pollAt := time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)
	rawPath, err := l.AppendRaw([]ctdf.PollSummary{
		{PollAtUTC: ctdf.NewTimestamp(pollAt), PollAtLocal: ctdf.NewTimestamp(pollAt), StopID: "S1", LineCode: "RER A", MeanDelaySeconds: 12, MeanLatenessSeconds: 12, N: 2, NPos: 2},
		{PollAtUTC: ctdf.NewTimestamp(pollAt), PollAtLocal: ctdf.NewTimestamp(pollAt), StopID: "S1", LineCode: "RER B", MeanDelaySeconds: -4, N: 1, NNeg: 1},
		{PollAtUTC: ctdf.NewTimestamp(pollAt), PollAtLocal: ctdf.NewTimestamp(pollAt), StopID: "S2", LineCode: "RER B", N: 0},
	}, pollAt)
	require.NoError(t, err)

	_, err = l.RebuildDaily(rawPath, 5*time.Minute)
	require.NoError(t, err)

	// raw ledger of a day whose daily summary has not been built yet
	nextDay := pollAt.AddDate(0, 0, 1)
	_, err = l.AppendRaw([]ctdf.PollSummary{
		{PollAtUTC: ctdf.NewTimestamp(nextDay), PollAtLocal: ctdf.NewTimestamp(nextDay), StopID: "S1", LineCode: "RER A", N: 1},
	}, nextDay)
	require.NoError(t, err)

	return l
}

func get(t *testing.T, l *ledger.Ledger, target string, body interface{}) int {
	t.Helper()

	response, err := NewApp(l).Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer response.Body.Close()

	if body != nil {
		data, err := io.ReadAll(response.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, body))
	}

	return response.StatusCode
}

func TestVersion(t *testing.T) {
	var body map[string]string
	assert.Equal(t, http.StatusOK, get(t, newTestLedger(t), "/stats/version", &body))
	assert.Equal(t, "v0.1", body["version"])
}

func TestDays(t *testing.T) {
	var body []map[string]interface{}
	require.Equal(t, http.StatusOK, get(t, newTestLedger(t), "/stats/days", &body))

	require.Len(t, body, 2)
	assert.Equal(t, "2025-02-03", body[0]["day"])
	assert.Equal(t, true, body[0]["daily"])
	assert.Equal(t, "2025-02-04", body[1]["day"])
	assert.Equal(t, true, body[1]["raw"])
	assert.Equal(t, false, body[1]["daily"])
}

func TestDaily(t *testing.T) {
	l := newTestLedger(t)

	var bins []map[string]interface{}
	require.Equal(t, http.StatusOK, get(t, l, "/stats/daily/2025-02-03", &bins))
	require.Len(t, bins, 3)
	assert.Equal(t, "2025-02-03 08:00", bins[0]["poll_bin_local"])
	assert.Equal(t, 12.0, bins[0]["mean_delay_s"])
	assert.Equal(t, "2025-02-03T08:00:00.000+00:00", bins[0]["last_poll_at_utc"])
	assert.Nil(t, bins[2]["mean_delay_s"])

	require.Equal(t, http.StatusOK, get(t, l, "/stats/daily/2025-02-03?line=rer%20b&stop=S1", &bins))
	require.Len(t, bins, 1)
	assert.Equal(t, -4.0, bins[0]["mean_delay_s"])

	require.Equal(t, http.StatusOK, get(t, l, "/stats/daily/2025-02-03?stop=S9", &bins))
	assert.Empty(t, bins)
}

func TestDailyErrors(t *testing.T) {
	l := newTestLedger(t)

	assert.Equal(t, http.StatusNotFound, get(t, l, "/stats/daily/2025-02-04", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, l, "/stats/daily/yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, l, "/stats/daily/2025-02-03?line=RER%20Z", nil))

	require.NoError(t, os.WriteFile(l.DailyPath(l.RawPath("2025-02-05")), []byte("poll_bin_local,n\nx,notanumber\n"), 0o644))
	assert.Equal(t, http.StatusInternalServerError, get(t, l, "/stats/daily/2025-02-05", nil))
}

func TestRaw(t *testing.T) {
	var rows []map[string]interface{}
	require.Equal(t, http.StatusOK, get(t, newTestLedger(t), "/stats/raw/2025-02-04", &rows))

	require.Len(t, rows, 1)
	assert.Equal(t, "S1", rows[0]["stop_id"])
	assert.Equal(t, "RER A", rows[0]["line_code"])
}
