package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/efficia/internal/activity"
	"gopkg.in/yaml.v3"
)

func sampleData() []activity.Sample {
	now := time.Now().UTC()
	return []activity.Sample{
		{ID: 1, AppName: "Chrome", WindowTitle: "Docs", Duration: 3600, CapturedAt: now.Add(-time.Hour)},
		{ID: 2, AppName: "Code", WindowTitle: "main.go", Duration: 1800, CapturedAt: now.Add(-30 * time.Minute)},
		{ID: 3, AppName: activity.UnknownApp, WindowTitle: activity.UnknownWindow, Duration: 5, CapturedAt: now},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestSamplesToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := SamplesToCSV(sampleData(), path); err != nil {
		t.Fatalf("SamplesToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"ID", "App", "Window", "Captured At", "Duration (s)", "Duration"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "1" {
		t.Fatalf("ID = %q, want 1", row[0])
	}
	if row[1] != "Chrome" {
		t.Fatalf("App = %q, want Chrome", row[1])
	}
	if row[2] != "Docs" {
		t.Fatalf("Window = %q, want Docs", row[2])
	}
	if row[4] != "3600" {
		t.Fatalf("Duration (s) = %q, want 3600", row[4])
	}
	if row[5] != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", row[5])
	}
	if _, err := time.Parse(time.RFC3339, row[3]); err != nil {
		t.Fatalf("captured at is not RFC3339: %q", row[3])
	}
}

func TestSamplesToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := SamplesToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestSamplesToCSVBadPath(t *testing.T) {
	if err := SamplesToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestCSVWriteFailureIsReported(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	if err := SamplesToCSV(sampleData(), "/dev/full"); err == nil {
		t.Fatal("expected error when the device is full")
	}
	totals := []activity.DailyTotal{{AppName: "Code", TotalSeconds: 60}}
	if err := TotalsToCSV(totals, "/dev/full"); err == nil {
		t.Fatal("expected error when the device is full")
	}
}

func TestSamplesToCSVSpecialCharacters(t *testing.T) {
	samples := []activity.Sample{
		{ID: 1, AppName: `App "Special"`, WindowTitle: `title with "quotes" and, commas`, Duration: 60, CapturedAt: time.Now()},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := SamplesToCSV(samples, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `App "Special"` {
		t.Fatalf("app name mangled: %q", records[1][1])
	}
	if records[1][2] != `title with "quotes" and, commas` {
		t.Fatalf("window title mangled: %q", records[1][2])
	}
}

func TestTotalsToCSV(t *testing.T) {
	totals := []activity.DailyTotal{
		{AppName: "Code", TotalSeconds: 50},
		{AppName: "Chrome", TotalSeconds: 3665},
	}
	path := filepath.Join(t.TempDir(), "totals.csv")

	if err := TotalsToCSV(totals, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[1][0] != "Code" || records[1][1] != "50" {
		t.Fatalf("first row = %v, want Code/50", records[1])
	}
	if records[2][2] != "01:01:05" {
		t.Fatalf("formatted total = %q, want 01:01:05", records[2][2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestSamplesToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := SamplesToJSON(sampleData(), path); err != nil {
		t.Fatalf("SamplesToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result document
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Samples) != 3 {
		t.Fatalf("samples = %d, want 3", len(result.Samples))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	e := result.Samples[1]
	if e.ID != 2 || e.App != "Code" || e.Window != "main.go" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.DurationSec != 1800 || e.Duration != "00:30:00" {
		t.Fatalf("duration = %d / %q", e.DurationSec, e.Duration)
	}
}

func TestSamplesToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := SamplesToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"samples": []`) {
		t.Fatalf("empty export should contain an empty array, got %s", data)
	}
}

func TestSamplesToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := SamplesToJSON(sampleData(), path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

func TestSamplesToJSONBadPath(t *testing.T) {
	if err := SamplesToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestSamplesToJSONWriteFailureIsReported(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	if err := SamplesToJSON(sampleData(), "/dev/full"); err == nil {
		t.Fatal("expected error when the device is full")
	}
}

// ============================================================
// YAML
// ============================================================

func TestSamplesToYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yaml")

	if err := SamplesToYAML(sampleData(), path); err != nil {
		t.Fatalf("SamplesToYAML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result document
	if err := yaml.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if result.Count != 3 || len(result.Samples) != 3 {
		t.Fatalf("count = %d, samples = %d", result.Count, len(result.Samples))
	}
	if result.Samples[2].App != activity.UnknownApp {
		t.Fatalf("app = %q, want %q", result.Samples[2].App, activity.UnknownApp)
	}
}

func TestSamplesToYAMLBadPath(t *testing.T) {
	if err := SamplesToYAML(nil, "/nonexistent/dir/file.yaml"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{86400, "24:00:00"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.secs)
		if got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
