// Package store provides a durable SQLite-backed usage history ledger,
// supplementing pkg/redis.StatsStore so usage history survives a Redis
// restart and the web UI can run bounded range queries instead of loading
// everything into memory.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poemonsense/antigravity-proxy-go/pkg/redis"
)

// UsageStore persists hourly, per-model request counts to a local SQLite file.
type UsageStore struct {
	db *sql.DB
}

// Open creates (if needed) and opens the SQLite usage-history database at path.
func Open(path string) (*UsageStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create usage database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open usage database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS usage_events (
			hour_key TEXT NOT NULL,
			family   TEXT NOT NULL,
			model    TEXT NOT NULL,
			count    INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (hour_key, family, model)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create usage table: %w", err)
	}

	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_usage_events_hour ON usage_events(hour_key)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create usage index: %w", err)
	}

	return &UsageStore{db: db}, nil
}

// Close closes the underlying database handle.
func (s *UsageStore) Close() error {
	return s.db.Close()
}

// RecordRequest increments the count for the current hour/family/model bucket.
func (s *UsageStore) RecordRequest(ctx context.Context, family, model string) error {
	hourKey := time.Now().UTC().Format("2006-01-02T15")
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_events (hour_key, family, model, count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(hour_key, family, model) DO UPDATE SET count = count + 1
	`, hourKey, family, model)
	return err
}

// SetCount overwrites the count for a single hour/family/model bucket. Used
// by the JSON migration tool to seed historical data without going through
// the increment-by-one path RecordRequest takes on the live request path.
func (s *UsageStore) SetCount(ctx context.Context, hourKey, family, model string, count int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_events (hour_key, family, model, count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hour_key, family, model) DO UPDATE SET count = excluded.count
	`, hourKey, family, model, count)
	return err
}

// PruneOlderThan deletes usage buckets older than the given number of days
// and returns how many rows were removed.
func (s *UsageStore) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02T15")
	res, err := s.db.ExecContext(ctx, `DELETE FROM usage_events WHERE hour_key < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetHistory returns per-hour usage statistics for the trailing `days` days,
// in the same shape pkg/redis.StatsStore.GetHistory returns so callers can
// treat both sources interchangeably.
func (s *UsageStore) GetHistory(ctx context.Context, days int) (map[string]*redis.HourlyStats, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02T15")

	rows, err := s.db.QueryContext(ctx, `
		SELECT hour_key, family, model, count FROM usage_events WHERE hour_key >= ?
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(map[string]*redis.HourlyStats)

	for rows.Next() {
		var hourKey, family, model string
		var count int64
		if err := rows.Scan(&hourKey, &family, &model, &count); err != nil {
			return nil, err
		}

		stats, ok := history[hourKey]
		if !ok {
			stats = &redis.HourlyStats{Hour: hourKey, Families: make(map[string]*redis.FamilyStats)}
			history[hourKey] = stats
		}

		fam, ok := stats.Families[family]
		if !ok {
			fam = &redis.FamilyStats{Models: make(map[string]int64)}
			stats.Families[family] = fam
		}

		fam.Models[model] += count
		fam.Subtotal += count
		stats.Total += count
	}

	return history, rows.Err()
}
