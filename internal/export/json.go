package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/efficia/internal/activity"
	"gopkg.in/yaml.v3"
)

type document struct {
	ExportedAt string  `json:"exported_at" yaml:"exported_at"`
	Count      int     `json:"count" yaml:"count"`
	Samples    []entry `json:"samples" yaml:"samples"`
}

type entry struct {
	ID          int64  `json:"id" yaml:"id"`
	App         string `json:"app_name" yaml:"app_name"`
	Window      string `json:"window_title" yaml:"window_title"`
	CapturedAt  string `json:"captured_at" yaml:"captured_at"`
	DurationSec int64  `json:"duration_seconds" yaml:"duration_seconds"`
	Duration    string `json:"duration" yaml:"duration"`
}

func newDocument(samples []activity.Sample) document {
	doc := document{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(samples),
		Samples:    make([]entry, 0, len(samples)),
	}
	for _, s := range samples {
		doc.Samples = append(doc.Samples, entry{
			ID:          s.ID,
			App:         s.AppName,
			Window:      s.WindowTitle,
			CapturedAt:  s.CapturedAt.Local().Format(time.RFC3339),
			DurationSec: s.Duration,
			Duration:    formatDuration(s.Duration),
		})
	}
	return doc
}

// SamplesToJSON writes an indented JSON document of samples.
func SamplesToJSON(samples []activity.Sample, path string) error {
	data, err := json.MarshalIndent(newDocument(samples), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// SamplesToYAML writes the same document as SamplesToJSON in YAML.
func SamplesToYAML(samples []activity.Sample, path string) error {
	data, err := yaml.Marshal(newDocument(samples))
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write yaml file: %w", err)
	}
	return nil
}
