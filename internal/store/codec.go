package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encode serialises lines as the persisted JSON array. A nil slice encodes
// as [].
func Encode(lines []Trendline) ([]byte, error) {
	if lines == nil {
		lines = []Trendline{}
	}
	return json.Marshal(lines)
}

type wirePoint struct {
	XIndex *float64 `json:"xIndex"`
	YValue *float64 `json:"yValue"`
}

type wireLine struct {
	ID    *int64     `json:"id"`
	Start *wirePoint `json:"start"`
	End   *wirePoint `json:"end"`
}

var errMissingField = errors.New("missing field")

// Decode parses a persisted array. Any entry lacking an id, an endpoint or
// a coordinate fails the whole payload.
func Decode(data []byte) ([]Trendline, error) {
	var wire []wireLine
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	lines := make([]Trendline, 0, len(wire))
	for i, w := range wire {
		if w.ID == nil || w.Start == nil || w.End == nil ||
			w.Start.XIndex == nil || w.Start.YValue == nil ||
			w.End.XIndex == nil || w.End.YValue == nil {
			return nil, fmt.Errorf("entry %d: %w", i, errMissingField)
		}
		line := Trendline{ID: *w.ID}
		line.Start.XIndex, line.Start.YValue = *w.Start.XIndex, *w.Start.YValue
		line.End.XIndex, line.End.YValue = *w.End.XIndex, *w.End.YValue
		lines = append(lines, line)
	}
	return lines, nil
}
