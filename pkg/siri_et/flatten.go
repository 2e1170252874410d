package siri_et

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/ctdf"
)

// Flatten walks delivery > frame > journey > call and emits one event per call in
// document order. Calls with missing or unparseable times are kept with nil fields.
func Flatten(siri *Siri) []ctdf.ArrivalEvent {
	if siri == nil || siri.ServiceDelivery == nil {
		return nil
	}

	serviceDelivery := siri.ServiceDelivery
	snapshotTime := parseTime(FirstText(serviceDelivery.ResponseTimestamp, siri.ResponseTimestamp))
	if snapshotTime == nil {
		log.Warn().Msg("Snapshot has no usable ResponseTimestamp")
	}

	var events []ctdf.ArrivalEvent

	for _, delivery := range serviceDelivery.EstimatedTimetableDelivery {
		for _, frame := range delivery.EstimatedJourneyVersionFrame {
			for _, journey := range frame.EstimatedVehicleJourney {
				lineCode := FirstText(journey.PublishedLineName, journey.LineRef).String()
				destination := FirstText(journey.DestinationName, journey.DestinationDisplay).String()
				vehicleJourneyID := FirstText(journey.VehicleJourneyRef, journey.DatedVehicleJourneyRef).String()

				for _, call := range journey.EstimatedCalls {
					scheduledTime := parseTime(FirstText(call.AimedArrivalTime, call.AimedDepartureTime))
					observedTime := parseTime(FirstText(call.ExpectedArrivalTime, call.ExpectedDepartureTime))

					event := ctdf.NewArrivalEvent(snapshotTime, scheduledTime, observedTime)
					event.StopID = FirstText(call.StopPointRef, call.StopAreaRef).String()
					event.StopName = FirstText(call.StopPointName, call.StopAreaName).String()
					event.LineCode = lineCode
					event.Direction = journey.DirectionRef.String()
					event.Destination = destination
					event.VehicleJourneyID = vehicleJourneyID

					events = append(events, event)
				}
			}
		}
	}

	return events
}

// Layouts without a zone are read as UTC
var timeLayouts = []string{
	time.RFC3339Nano,
	ctdf.XSDDateTimeFormat,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseTime(value Text) *time.Time {
	text := value.String()
	if text == "" {
		return nil
	}

	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}

	return nil
}
