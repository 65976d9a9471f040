package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/efficia/internal/activity"
)

// timeLayout is fixed width so that text comparison in SQL matches
// chronological order. Values are always stored in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const sampleColumns = "id, app_name, window_title, duration, captured_at, captured_raw"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// InsertSample appends a sample and returns it with its assigned ID.
func (s *Store) InsertSample(ctx context.Context, sample activity.Sample) (activity.Sample, error) {
	if sample.Duration < 0 {
		return activity.Sample{}, fmt.Errorf("insert sample: negative duration %d", sample.Duration)
	}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO samples (app_name, window_title, duration, captured_at, captured_raw) VALUES (?, ?, ?, ?, ?)`,
			sample.AppName, sample.WindowTitle, sample.Duration, formatTime(sample.CapturedAt), sample.RawTimestamp,
		)
		if err != nil {
			return err
		}
		sample.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return activity.Sample{}, fmt.Errorf("insert sample: %w", err)
	}
	sample.CapturedAt = sample.CapturedAt.UTC()
	return sample, nil
}

// GetSample returns the sample with the given id or ErrNotFound.
func (s *Store) GetSample(ctx context.Context, id int64) (activity.Sample, error) {
	var sample activity.Sample
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			`SELECT `+sampleColumns+` FROM samples WHERE id = ?`, id)
		var err error
		sample, err = scanSample(row)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return activity.Sample{}, fmt.Errorf("get sample %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return activity.Sample{}, fmt.Errorf("get sample %d: %w", id, err)
	}
	return sample, nil
}

// RecentSamples returns up to limit samples, most recent first.
func (s *Store) RecentSamples(ctx context.Context, limit int) ([]activity.Sample, error) {
	if limit <= 0 {
		return nil, nil
	}
	samples, err := s.querySamples(ctx,
		`SELECT `+sampleColumns+` FROM samples
		 ORDER BY captured_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent samples: %w", err)
	}
	return samples, nil
}

// SamplesBetween returns samples captured in [from, to), oldest first.
func (s *Store) SamplesBetween(ctx context.Context, from, to time.Time) ([]activity.Sample, error) {
	samples, err := s.querySamples(ctx,
		`SELECT `+sampleColumns+` FROM samples
		 WHERE captured_at >= ? AND captured_at < ?
		 ORDER BY captured_at, id`, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("samples between: %w", err)
	}
	return samples, nil
}

// AllSamples returns every stored sample, oldest first.
func (s *Store) AllSamples(ctx context.Context) ([]activity.Sample, error) {
	return s.SamplesBetween(ctx, time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
}

// DailyTotals aggregates the samples captured in [from, to).
func (s *Store) DailyTotals(ctx context.Context, from, to time.Time) ([]activity.DailyTotal, error) {
	samples, err := s.SamplesBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return activity.Aggregate(samples, from, to), nil
}

func (s *Store) querySamples(ctx context.Context, query string, args ...any) ([]activity.Sample, error) {
	var samples []activity.Sample
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			sample, err := scanSample(rows)
			if err != nil {
				return err
			}
			samples = append(samples, sample)
		}
		return rows.Err()
	})
	return samples, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSample(row scanner) (activity.Sample, error) {
	var sample activity.Sample
	var capturedAt string
	if err := row.Scan(&sample.ID, &sample.AppName, &sample.WindowTitle, &sample.Duration, &capturedAt, &sample.RawTimestamp); err != nil {
		return activity.Sample{}, err
	}
	t, err := time.Parse(timeLayout, capturedAt)
	if err != nil {
		return activity.Sample{}, fmt.Errorf("parse captured_at %q: %w", capturedAt, err)
	}
	sample.CapturedAt = t
	return sample, nil
}
