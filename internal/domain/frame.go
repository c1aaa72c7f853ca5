package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Frame is one step of a playback run: the segments revealed since the
// previous frame.
type Frame struct {
	RunID     string    `json:"run_id"`
	Layout    string    `json:"layout"`
	Progress  int       `json:"progress"`
	Total     int       `json:"total"`
	Year      int       `json:"year,omitempty"`
	Segments  []Segment `json:"segments"`
	EmittedAt time.Time `json:"emitted_at"`
}

// OutputEvent is the serialized form of a Frame destined for a sink.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// SerializeFrame marshals a frame into an OutputEvent keyed by run ID.
func SerializeFrame(frame Frame) (OutputEvent, error) {
	data, err := json.Marshal(frame)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize frame: %w", err)
	}
	return OutputEvent{
		Key:   []byte(frame.RunID),
		Value: data,
		Headers: map[string]string{
			"progress":   strconv.Itoa(frame.Progress),
			"emitted_at": frame.EmittedAt.Format(time.RFC3339),
		},
	}, nil
}
