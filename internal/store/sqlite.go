package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/knitcast/temperature-blanket/internal/blanket"
)

// ErrNotFound is returned when a single-row lookup matches nothing.
var ErrNotFound = errors.New("no matching record")

const sqlCreate = `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS temperature_ranges
(
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    min_temp      INTEGER NOT NULL,
    max_temp      INTEGER NOT NULL,
    color_name    TEXT    NOT NULL,
    color_hex     TEXT    NOT NULL,
    display_order INTEGER NOT NULL,
    UNIQUE (min_temp, max_temp)
);

CREATE TABLE IF NOT EXISTS daily_temperatures
(
    date             TEXT PRIMARY KEY,
    high_temperature INTEGER NOT NULL,
    color_name       TEXT    NOT NULL,
    color_hex        TEXT    NOT NULL,
    year             INTEGER NOT NULL,
    created_at       TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS progress
(
    id                INTEGER PRIMARY KEY CHECK (id = 1),
    last_knitted_date TEXT,
    updated_at        TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_year ON daily_temperatures (year);
CREATE INDEX IF NOT EXISTS idx_date ON daily_temperatures (date);
`

// SQLiteStore implements blanket.Store on a file-backed SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the database at filename and ensures the
// schema exists. SQLite serializes writers itself, so a single connection is
// enough and avoids SQLITE_BUSY under concurrent handlers.
func Open(filename string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}
	conn.SetMaxIdleConns(1)
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	db := sqlx.NewDb(conn, "sqlite3")
	if _, err := db.Exec(sqlCreate); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SeedRanges inserts ranges in one transaction iff the table is empty.
func (s *SQLiteStore) SeedRanges(ranges []blanket.RangeInsert) error {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM temperature_ranges`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range ranges {
		if _, err := tx.Exec(`
INSERT INTO temperature_ranges (min_temp, max_temp, color_name, color_hex, display_order)
VALUES (?, ?, ?, ?, ?)`,
			r.MinTemp, r.MaxTemp, r.ColorName, r.ColorHex, r.DisplayOrder); err != nil {
			return fmt.Errorf("insert range %q: %w", r.ColorName, err)
		}
	}
	return tx.Commit()
}

// GetRanges returns all ranges in ascending display order.
func (s *SQLiteStore) GetRanges() ([]blanket.TemperatureRange, error) {
	ranges := []blanket.TemperatureRange{}
	err := s.db.Select(&ranges, `SELECT * FROM temperature_ranges ORDER BY display_order`)
	return ranges, err
}

// InsertDaily inserts a record unless one already exists for the date and
// reports whether a row was created. The primary key on date makes this safe
// under concurrent attempts: at most one insert survives.
func (s *SQLiteStore) InsertDaily(rec blanket.DailyInsert) (bool, error) {
	r, err := s.db.Exec(`
INSERT OR IGNORE INTO daily_temperatures (date, high_temperature, color_name, color_hex, year)
VALUES (?, ?, ?, ?, ?)`,
		rec.Date, rec.HighTemperature, rec.ColorName, rec.ColorHex, rec.Year)
	if err != nil {
		return false, err
	}
	n, err := r.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetAllDaily returns every record ascending by date.
func (s *SQLiteStore) GetAllDaily() ([]blanket.DailyTemperature, error) {
	recs := []blanket.DailyTemperature{}
	err := s.db.Select(&recs, `SELECT * FROM daily_temperatures ORDER BY date`)
	return recs, err
}

// GetDailyByYear returns the given year's records ascending by date.
func (s *SQLiteStore) GetDailyByYear(year int) ([]blanket.DailyTemperature, error) {
	recs := []blanket.DailyTemperature{}
	err := s.db.Select(&recs, `SELECT * FROM daily_temperatures WHERE year = ? ORDER BY date`, year)
	return recs, err
}

// GetDailyByDateRange returns records in the inclusive [start, end] window,
// ascending by date.
func (s *SQLiteStore) GetDailyByDateRange(start, end string) ([]blanket.DailyTemperature, error) {
	recs := []blanket.DailyTemperature{}
	err := s.db.Select(&recs, `
SELECT * FROM daily_temperatures WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
	return recs, err
}

// GetLatestDaily returns the record with the maximum date, or ErrNotFound
// when the table is empty.
func (s *SQLiteStore) GetLatestDaily() (blanket.DailyTemperature, error) {
	var rec blanket.DailyTemperature
	err := s.db.Get(&rec, `SELECT * FROM daily_temperatures ORDER BY date DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return blanket.DailyTemperature{}, ErrNotFound
	}
	return rec, err
}

// GetLastRecordedDate returns the maximum date, or "" when the table is empty.
func (s *SQLiteStore) GetLastRecordedDate() (string, error) {
	var last sql.NullString
	if err := s.db.Get(&last, `SELECT MAX(date) FROM daily_temperatures`); err != nil {
		return "", err
	}
	return last.String, nil
}

// GetStats returns the record count and the maximum date (nil when empty).
func (s *SQLiteStore) GetStats() (blanket.Stats, error) {
	var stats blanket.Stats
	if err := s.db.Get(&stats.Total, `SELECT COUNT(*) FROM daily_temperatures`); err != nil {
		return blanket.Stats{}, err
	}
	var latest sql.NullString
	if err := s.db.Get(&latest, `SELECT MAX(date) FROM daily_temperatures`); err != nil {
		return blanket.Stats{}, err
	}
	if latest.Valid {
		stats.Latest = &latest.String
	}
	return stats, nil
}

// GetProgress returns the singleton progress row, or nil if it was never set.
func (s *SQLiteStore) GetProgress() (*blanket.Progress, error) {
	var p blanket.Progress
	err := s.db.Get(&p, `SELECT id, last_knitted_date, updated_at FROM progress WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProgress upserts the singleton progress row, refreshing its timestamp.
// Any date string or nil is accepted; no referential check against
// daily_temperatures is made.
func (s *SQLiteStore) SetProgress(date *string) error {
	_, err := s.db.Exec(`
INSERT INTO progress (id, last_knitted_date, updated_at)
VALUES (1, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  last_knitted_date = excluded.last_knitted_date,
  updated_at        = CURRENT_TIMESTAMP`, date)
	return err
}
