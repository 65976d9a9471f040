package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Setting struct {
	Key   string
	Value string
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get setting %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		)
		return err
	})
}

func (s *Store) GetAllSettings(ctx context.Context) ([]Setting, error) {
	var settings []Setting
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var st Setting
			if err := rows.Scan(&st.Key, &st.Value); err != nil {
				return err
			}
			settings = append(settings, st)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}
