package util

import (
	"math"
	"time"
)

// TimeOfDay is the wall clock time of t in its own location
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// FloorToInterval floors t on the wall clock of its own location, so buckets line up
// with local minutes and hours. The result keeps the offset of t, which keeps the two
// occurrences of a repeated wall clock hour apart.
func FloorToInterval(t time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		return t
	}

	return t.Add(-(TimeOfDay(t) % interval))
}

// RoundTo rounds a float to a fixed number of decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
