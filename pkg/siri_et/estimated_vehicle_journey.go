package siri_et

import (
	"bytes"
	"encoding/json"
)

type EstimatedVehicleJourney struct {
	RecordedAtTime Text

	LineRef           Text
	PublishedLineName Text
	DirectionRef      Text

	DestinationName    Text
	DestinationDisplay Text

	VehicleJourneyRef      Text
	DatedVehicleJourneyRef Text

	EstimatedCalls EstimatedCalls
}

// EstimatedCalls is either an {"EstimatedCall": ...} container or a bare list of calls
type EstimatedCalls []EstimatedCall

func (c *EstimatedCalls) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*c = nil

	if len(data) > 0 && data[0] == '{' {
		var container struct {
			EstimatedCall OneOrMany[EstimatedCall]
		}
		if err := json.Unmarshal(data, &container); err != nil {
			return nil
		}
		*c = EstimatedCalls(container.EstimatedCall)
		return nil
	}

	var calls OneOrMany[EstimatedCall]
	if err := json.Unmarshal(data, &calls); err != nil {
		return nil
	}
	*c = EstimatedCalls(calls)

	return nil
}

type EstimatedCall struct {
	StopPointRef  Text
	StopAreaRef   Text
	StopPointName Text
	StopAreaName  Text

	AimedArrivalTime      Text
	AimedDepartureTime    Text
	ExpectedArrivalTime   Text
	ExpectedDepartureTime Text

	ArrivalStatus   Text
	DepartureStatus Text
}
