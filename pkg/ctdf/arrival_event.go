package ctdf

import "time"

// ArrivalEvent is one stop call extracted from an estimated timetable snapshot.
// Pointer fields are nil when the source value was missing or unparseable.
type ArrivalEvent struct {
	SnapshotTime *time.Time

	StopID   string
	StopName string

	LineCode         string
	Direction        string
	Destination      string
	VehicleJourneyID string

	ScheduledTime *time.Time
	ObservedTime  *time.Time

	DelaySeconds    *float64
	LeadTimeSeconds *float64
}

// NewArrivalEvent derives the delay and lead time from whichever timestamps are present
func NewArrivalEvent(snapshotTime, scheduledTime, observedTime *time.Time) ArrivalEvent {
	event := ArrivalEvent{
		SnapshotTime:  snapshotTime,
		ScheduledTime: scheduledTime,
		ObservedTime:  observedTime,
	}

	if scheduledTime != nil && observedTime != nil {
		delay := observedTime.Sub(*scheduledTime).Seconds()
		event.DelaySeconds = &delay
	}

	if snapshotTime != nil && scheduledTime != nil {
		lead := scheduledTime.Sub(*snapshotTime).Seconds()
		event.LeadTimeSeconds = &lead
	}

	return event
}
