package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/efficia/internal/activity"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertSample is a test helper that stores a sample captured at the given time.
func insertSample(t *testing.T, s *Store, app, title string, secs int64, at time.Time) activity.Sample {
	t.Helper()
	stored, err := s.InsertSample(context.Background(), activity.Sample{
		AppName:     app,
		WindowTitle: title,
		Duration:    secs,
		CapturedAt:  at,
	})
	if err != nil {
		t.Fatalf("insert sample: %v", err)
	}
	return stored
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestOpenDoesNotCreateTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "efficia.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var n int
	s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'samples'`).Scan(&n)
	if n != 0 {
		t.Fatal("Open should not create the samples table")
	}

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'samples'`).Scan(&n)
	if n != 1 {
		t.Fatal("Migrate should create the samples table")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "efficia.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	insertSample(t, s, "Code", "main.go", 5, time.Now())
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if err := s2.Migrate(ctx); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
	samples, err := s2.RecentSamples(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample after reopen, got %d", len(samples))
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestMigrateFromV1(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "efficia.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err = s.withConn(ctx, func(conn *sql.Conn) error {
		if err := migrateV1(ctx, conn); err != nil {
			return err
		}
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO samples (app_name, duration, captured_at) VALUES ('Code', 5, ?)`,
			formatTime(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))); err != nil {
			return err
		}
		_, err := conn.ExecContext(ctx, "PRAGMA user_version = 1")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("migrate from v1: %v", err)
	}
	got, err := s.GetSample(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.RawTimestamp != "" {
		t.Fatalf("expected empty raw timestamp for a v1 row, got %q", got.RawTimestamp)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "efficia.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
}

// ============================================================
// Samples
// ============================================================

func TestInsertAndGetSample(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2025, 3, 10, 9, 30, 15, 123456789, time.FixedZone("CET", 3600))

	stored := insertSample(t, s, "Chrome", "Inbox", 5, at)
	if stored.ID == 0 {
		t.Fatal("expected non-zero ID")
	}

	got, err := s.GetSample(context.Background(), stored.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.AppName != "Chrome" || got.WindowTitle != "Inbox" || got.Duration != 5 {
		t.Fatalf("unexpected sample: %+v", got)
	}
	if !got.CapturedAt.Equal(at) {
		t.Fatalf("captured_at mismatch: got %v want %v", got.CapturedAt, at)
	}
	if got.CapturedAt.Location() != time.UTC {
		t.Fatalf("expected UTC timestamps, got %v", got.CapturedAt.Location())
	}
}

func TestRawTimestampPreserved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	raw := "2025-03-10T09:30:15.123456"
	at, err := activity.ParseTimestamp(raw)
	if err != nil {
		t.Fatal(err)
	}

	stored, err := s.InsertSample(ctx, activity.Sample{AppName: "Code", Duration: 5, CapturedAt: at, RawTimestamp: raw})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSample(ctx, stored.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RawTimestamp != raw {
		t.Fatalf("raw timestamp: got %q want %q", got.RawTimestamp, raw)
	}
	if !got.CapturedAt.Equal(at) {
		t.Fatalf("captured_at mismatch: got %v want %v", got.CapturedAt, at)
	}

	recent, err := s.RecentSamples(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 1 || recent[0].RawTimestamp != raw {
		t.Fatalf("recent samples lost the raw timestamp: %+v", recent)
	}
}

func TestGetSampleNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSample(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertSampleNegativeDuration(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertSample(context.Background(), activity.Sample{AppName: "x", Duration: -1, CapturedAt: time.Now()})
	if err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestRecentSamplesOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	insertSample(t, s, "A", "", 5, base.Add(2*time.Minute))
	insertSample(t, s, "B", "", 5, base)
	insertSample(t, s, "C", "", 5, base.Add(time.Minute))
	insertSample(t, s, "D", "", 5, base.Add(2*time.Minute))

	samples, err := s.RecentSamples(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	// Same captured_at falls back to insertion order, newest first.
	want := []string{"D", "A", "C"}
	for i, w := range want {
		if samples[i].AppName != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, samples[i].AppName)
		}
	}
}

func TestRecentSamplesEmpty(t *testing.T) {
	s := newTestStore(t)
	samples, err := s.RecentSamples(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if samples != nil {
		t.Fatalf("expected nil slice, got %d items", len(samples))
	}
}

func TestSamplesBetweenHalfOpen(t *testing.T) {
	s := newTestStore(t)
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	insertSample(t, s, "before", "", 5, from.Add(-time.Nanosecond))
	insertSample(t, s, "start", "", 5, from)
	insertSample(t, s, "inside", "", 5, from.Add(12*time.Hour+500*time.Millisecond))
	insertSample(t, s, "end", "", 5, to)

	samples, err := s.SamplesBetween(context.Background(), from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].AppName != "start" || samples[1].AppName != "inside" {
		t.Fatalf("unexpected samples: %+v", samples)
	}
}

func TestSamplesBetweenAcrossOffsets(t *testing.T) {
	s := newTestStore(t)
	east := time.FixedZone("UTC+9", 9*3600)
	// 08:00 in UTC+9 is 23:00 UTC of the previous day.
	insertSample(t, s, "Tokyo", "", 5, time.Date(2025, 3, 11, 8, 0, 0, 0, east))

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	samples, err := s.SamplesBetween(context.Background(), from, from.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("expected the sample to fall on 2025-03-10 UTC, got %d", len(samples))
	}
}

func TestDailyTotals(t *testing.T) {
	s := newTestStore(t)
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	insertSample(t, s, "Chrome", "Docs", 30, from.Add(time.Hour))
	insertSample(t, s, "Chrome", "Mail", 15, from.Add(2*time.Hour))
	insertSample(t, s, "Code", "main.go", 50, from.Add(3*time.Hour))
	insertSample(t, s, "Code", "main.go", 999, to.Add(time.Hour))

	totals, err := s.DailyTotals(context.Background(), from, to)
	if err != nil {
		t.Fatal(err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0] != (activity.DailyTotal{AppName: "Code", TotalSeconds: 50}) {
		t.Fatalf("unexpected first total: %+v", totals[0])
	}
	if totals[1] != (activity.DailyTotal{AppName: "Chrome", TotalSeconds: 45}) {
		t.Fatalf("unexpected second total: %+v", totals[1])
	}
}

func TestDailyTotalsEmpty(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	totals, err := s.DailyTotals(context.Background(), now.Add(-time.Hour), now)
	if err != nil {
		t.Fatal(err)
	}
	if totals == nil || len(totals) != 0 {
		t.Fatalf("expected empty non-nil totals, got %#v", totals)
	}
}

func TestAllSamples(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	insertSample(t, s, "Code", "b", 5, base.AddDate(5, 0, 0))
	insertSample(t, s, "Code", "a", 5, base.AddDate(-20, 0, 0))

	samples, err := s.AllSamples(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[0].WindowTitle != "a" {
		t.Fatalf("expected oldest first, got %q", samples[0].WindowTitle)
	}
}

func TestCancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RecentSamples(ctx, 5); err == nil {
		t.Fatal("expected error with cancelled context")
	}
	// The store remains usable afterwards.
	if _, err := s.RecentSamples(context.Background(), 5); err != nil {
		t.Fatalf("store unusable after cancelled call: %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	settings, err := s.GetAllSettings(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 default settings, got %d", len(settings))
	}
	// Sorted by key.
	if settings[0].Key != "chart_apps" {
		t.Fatalf("expected chart_apps first, got %s", settings[0].Key)
	}
}

func TestSetAndGetSetting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SetSetting(ctx, "daily_goal", "3600"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting(ctx, "daily_goal")
	if err != nil {
		t.Fatal(err)
	}
	if v != "3600" {
		t.Fatalf("expected 3600, got %s", v)
	}
}

func TestGetSettingMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
