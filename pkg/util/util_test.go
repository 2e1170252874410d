package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	_ "time/tzdata"
)

func TestRemoveDuplicateStrings(t *testing.T) {
	result := RemoveDuplicateStrings([]string{"RER A", "", "RER B", "RER A", "RER C"}, []string{"RER C"})

	assert.Equal(t, []string{"RER A", "RER B"}, result)
}

func TestInPlaceFilter(t *testing.T) {
	values := []int{-2, 0, 3, -1, 5}
	InPlaceFilter(&values, func(v int) bool { return v >= 0 })

	assert.Equal(t, []int{0, 3, 5}, values)
}

func TestEnvironmentHelpers(t *testing.T) {
	env := map[string]string{
		"N":     " 42 ",
		"BAD":   "x",
		"LINES": "RER A, RER B,,RER A",
	}

	n, ok := EnvironmentInt(env, "N")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = EnvironmentInt(env, "BAD")
	assert.False(t, ok)

	_, ok = EnvironmentInt(env, "MISSING")
	assert.False(t, ok)

	assert.Equal(t, []string{"RER A", "RER B"}, EnvironmentList(env, "LINES"))
	assert.Nil(t, EnvironmentList(env, "MISSING"))
}

func TestFloorToInterval(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skip("timezone database unavailable")
	}

	ts := time.Date(2025, 3, 14, 8, 7, 59, 999, paris)

	assert.True(t, time.Date(2025, 3, 14, 8, 5, 0, 0, paris).Equal(FloorToInterval(ts, 5*time.Minute)))
	assert.True(t, time.Date(2025, 3, 14, 8, 7, 30, 0, paris).Equal(FloorToInterval(ts, 30*time.Second)))
	assert.True(t, time.Date(2025, 3, 14, 8, 0, 0, 0, paris).Equal(FloorToInterval(ts, time.Hour)))
	assert.Equal(t, ts, FloorToInterval(ts, 0))

	// 02:07 occurs twice on 2025-10-26 in Paris, each floors within its own offset
	summer := time.Date(2025, 10, 26, 0, 7, 0, 0, time.UTC).In(paris)
	winter := time.Date(2025, 10, 26, 1, 7, 0, 0, time.UTC).In(paris)
	assert.True(t, time.Date(2025, 10, 26, 0, 5, 0, 0, time.UTC).Equal(FloorToInterval(summer, 5*time.Minute)))
	assert.True(t, time.Date(2025, 10, 26, 1, 5, 0, 0, time.UTC).Equal(FloorToInterval(winter, 5*time.Minute)))
	assert.Equal(t, "2025-10-26T02:05:00+02:00", FloorToInterval(summer, 5*time.Minute).Format(time.RFC3339))
}

func TestTimeOfDay(t *testing.T) {
	assert.Equal(t, 17*time.Hour+45*time.Minute+12*time.Second, TimeOfDay(time.Date(2025, 6, 1, 17, 45, 12, 0, time.UTC)))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.235, RoundTo(1.23456, 3))
	assert.Equal(t, -2.333, RoundTo(-2.3334, 3))
	assert.Equal(t, 18.0, RoundTo(18.0000001, 3))
}
