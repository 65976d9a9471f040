package activity

import (
	"encoding/json"
	"time"
)

// Sentinel values reported when the foreground window cannot be resolved.
const (
	UnknownApp    = "Unknown"
	UnknownWindow = "Unknown Window"
)

// Sample is one observation of the foreground window. Samples are never
// updated once stored.
type Sample struct {
	ID          int64     `json:"id,omitempty" yaml:"id,omitempty"`
	AppName     string    `json:"app_name" yaml:"app_name"`
	WindowTitle string    `json:"window_title" yaml:"window_title"`
	Duration    int64     `json:"duration" yaml:"duration"` // seconds
	CapturedAt  time.Time `json:"timestamp" yaml:"timestamp"`

	// RawTimestamp is the timestamp as the client sent it. When set it is
	// what the JSON "timestamp" field carries; CapturedAt stays the
	// normalised instant used for ordering and aggregation.
	RawTimestamp string `json:"-" yaml:"-"`
}

// sampleJSON shadows the embedded CapturedAt field on the "timestamp" key.
type sampleJSON struct {
	plainSample
	Timestamp Timestamp `json:"timestamp"`
}

type plainSample Sample

func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleJSON{
		plainSample: plainSample(s),
		Timestamp:   Timestamp{Time: s.CapturedAt, Raw: s.RawTimestamp},
	})
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var v sampleJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Sample(v.plainSample)
	s.CapturedAt = v.Timestamp.Time
	s.RawTimestamp = v.Timestamp.Raw
	return nil
}

// DailyTotal is the summed duration of one application inside a window.
type DailyTotal struct {
	AppName      string `json:"app_name" yaml:"app_name"`
	TotalSeconds int64  `json:"total_time" yaml:"total_time"`
}
