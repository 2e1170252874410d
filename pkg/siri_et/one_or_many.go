package siri_et

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// OneOrMany decodes a JSON value that may be a single object or an array of them.
// A single object becomes a one element slice, null becomes an empty slice and
// array elements that fail to decode are skipped.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = nil

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '[' {
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			log.Debug().Err(err).Msg("Skipping undecodable SIRI element")
			return nil
		}
		*o = OneOrMany[T]{item}
		return nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(data, &rawItems); err != nil {
		log.Debug().Err(err).Msg("Skipping undecodable SIRI array")
		return nil
	}

	items := make(OneOrMany[T], 0, len(rawItems))
	for _, rawItem := range rawItems {
		var item T
		if err := json.Unmarshal(rawItem, &item); err != nil {
			log.Debug().Err(err).Msg("Skipping undecodable SIRI element")
			continue
		}
		items = append(items, item)
	}
	*o = items

	return nil
}

// Text is a SIRI text node. Providers publish these as a plain string, as
// {"value": "..."} or as a list of either; the first non blank value wins.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = ""

	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*t = Text(s)
		}
	case '{':
		var node struct {
			Value Text `json:"value"`
		}
		if err := json.Unmarshal(data, &node); err == nil {
			*t = node.Value
		}
	case '[':
		var nodes []Text
		if err := json.Unmarshal(data, &nodes); err == nil {
			*t = FirstText(nodes...)
		}
	case 'n':
		// null
	default:
		// numbers and booleans keep their literal form
		*t = Text(data)
	}

	return nil
}

func (t Text) String() string {
	return strings.TrimSpace(string(t))
}

// FirstText returns the first value that is not blank
func FirstText(values ...Text) Text {
	for _, value := range values {
		if value.String() != "" {
			return Text(value.String())
		}
	}

	return ""
}
