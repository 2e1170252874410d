// Package siri_et decodes SIRI Estimated Timetable snapshots as published by the
// IDFM PRIM API and flattens them into individual arrival events.
package siri_et

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Envelope struct {
	Siri *Siri
}

type Siri struct {
	ResponseTimestamp Text

	ServiceDelivery *ServiceDelivery
}

type ServiceDelivery struct {
	ResponseTimestamp Text
	ProducerRef       Text

	EstimatedTimetableDelivery OneOrMany[EstimatedTimetableDelivery]
}

type EstimatedTimetableDelivery struct {
	ResponseTimestamp Text

	EstimatedJourneyVersionFrame OneOrMany[EstimatedJourneyVersionFrame]
}

type EstimatedJourneyVersionFrame struct {
	RecordedAtTime Text

	EstimatedVehicleJourney OneOrMany[EstimatedVehicleJourney]
}

// ParseError reports a payload that is not a usable Estimated Timetable document
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("siri-et parse error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("siri-et parse error: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode parses a snapshot body. Both the {"Siri": {...}} envelope and a bare
// Siri document are accepted.
func Decode(body []byte) (*Siri, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &ParseError{Reason: "empty payload"}
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ParseError{Reason: "invalid json", Err: err}
	}

	siri := envelope.Siri
	if siri == nil {
		siri = &Siri{}
		if err := json.Unmarshal(body, siri); err != nil {
			return nil, &ParseError{Reason: "invalid json", Err: err}
		}
	}

	if siri.ServiceDelivery == nil {
		return nil, &ParseError{Reason: "missing ServiceDelivery"}
	}

	return siri, nil
}
