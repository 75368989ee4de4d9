package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// schema is the persisted layout. Table and column names are the
// compatibility surface of the database file.
var schema = []struct {
	name string
	ddl  string
}{
	{
		name: "weather_data",
		ddl: `
		CREATE TABLE IF NOT EXISTS weather_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sol INTEGER UNIQUE NOT NULL,
			temperature REAL,
			pressure REAL,
			wind_speed REAL,
			wind_direction TEXT,
			earth_date TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	{
		name: "api_metadata",
		ddl: `
		CREATE TABLE IF NOT EXISTS api_metadata (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_update TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			total_sols INTEGER,
			api_response TEXT
		)`,
	},
}

// sqliteTimeLayout matches SQLite's CURRENT_TIMESTAMP text.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// InitSchema creates both tables if they are absent.
func (s *SQLiteStorage) InitSchema(ctx context.Context) error {
	return s.withConn(ctx, func(conn *sql.Conn) error {
		for _, t := range schema {
			if _, err := conn.ExecContext(ctx, t.ddl); err != nil {
				return fmt.Errorf("failed to create %s table: %w", t.name, err)
			}
		}
		return nil
	})
}

// formatTimestamp renders t the way CURRENT_TIMESTAMP does (UTC, second precision).
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// parseTimestamp accepts SQLite's own format and the RFC 3339 text the
// driver produces when it has already converted the column to time.Time.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05Z07:00"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
