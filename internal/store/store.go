// Package store provides the local embedded SQLite persistence tier.
//
// The database runs in embedded mode via ncruces/go-sqlite3 with WAL for
// concurrent reads. It holds four foreign-key-linked tables: users, plants,
// sensor_readings, and alerts.
//
// Row ids are assigned by SQLite at insert time unless the record already
// carries one. Imported records keep the id their remote document carried,
// which is what keeps repeated imports idempotent for keyed tables.
//
// Foreign keys are declared in the schema but enforcement is left off:
// cross-tier transfer interleaves two independent id spaces and the engine
// must be able to land a plant before its user's local id is known.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/angewomoon/masetero/internal/catalog"
)

// Store wraps the SQLite connection with the client's table operations.
type Store struct {
	conn *sql.DB
	path string
}

// Open creates a new database connection at the specified path.
//
// If the database doesn't exist it is created; call InitSchema before first
// use. The caller MUST call Close() when done.
//
// Example:
//
//	db, err := store.Open(".masetero/local.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// The driver turns foreign_keys on by default; transfer needs it off so
	// records can land before their parent rows exist in the local id space.
	connStr := fmt.Sprintf("file:%s?_pragma=foreign_keys(0)", path)
	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{
		conn: conn,
		path: path,
	}

	// WAL mode for concurrent reads during sync runs
	if _, err := s.conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := s.conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// RawDB returns the underlying sql.DB connection.
func (s *Store) RawDB() *sql.DB {
	return s.conn
}

// Close closes the database connection.
// Performs a WAL checkpoint to ensure all changes are persisted.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}

	if _, err := s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	s.conn = nil
	return nil
}

// InitSchema creates the database schema if it doesn't exist.
// Idempotent - safe to call multiple times.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		profile_image_url TEXT,
		external_auth_id TEXT,
		created_at INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS plants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		species TEXT,
		scientific_name TEXT,
		image_url TEXT,
		connected INTEGER NOT NULL DEFAULT 0,
		min_soil_humidity REAL NOT NULL DEFAULT 0,
		max_soil_humidity REAL NOT NULL DEFAULT 0,
		min_temperature REAL NOT NULL DEFAULT 0,
		max_temperature REAL NOT NULL DEFAULT 0,
		min_ambient_humidity REAL NOT NULL DEFAULT 0,
		max_ambient_humidity REAL NOT NULL DEFAULT 0,
		optimal_light TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL DEFAULT 0,
		updated_at INTEGER NOT NULL DEFAULT 0
	);

	-- Append-only event logs
	CREATE TABLE IF NOT EXISTS sensor_readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plant_id INTEGER NOT NULL REFERENCES plants(id),
		soil_humidity REAL NOT NULL DEFAULT 0,
		temperature REAL NOT NULL DEFAULT 0,
		ambient_humidity REAL NOT NULL DEFAULT 0,
		uv_index REAL NOT NULL DEFAULT 0,
		water_level REAL NOT NULL DEFAULT 0,
		pest_count INTEGER NOT NULL DEFAULT 0,
		timestamp TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plant_id INTEGER NOT NULL REFERENCES plants(id),
		type TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT 'info',
		read INTEGER NOT NULL DEFAULT 0,
		icon TEXT,
		timestamp TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_plants_user ON plants(user_id);
	CREATE INDEX IF NOT EXISTS idx_readings_plant ON sensor_readings(plant_id);
	CREATE INDEX IF NOT EXISTS idx_readings_timestamp ON sensor_readings(timestamp);
	CREATE INDEX IF NOT EXISTS idx_alerts_plant ON alerts(plant_id);
	CREATE INDEX IF NOT EXISTS idx_alerts_unread ON alerts(read) WHERE read = 0;
	`

	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// CountRows returns the number of rows in the named local table.
// The table name must come from the catalog; anything else is rejected.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	known := false
	for _, spec := range catalog.All() {
		if spec.LocalTable == table {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// TableCounts returns row counts for every catalog table, keyed by local
// table name.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(catalog.All()))
	for _, spec := range catalog.All() {
		n, err := s.CountRows(ctx, spec.LocalTable)
		if err != nil {
			return nil, err
		}
		counts[spec.LocalTable] = n
	}
	return counts, nil
}

// idOrNull lets inserts either keep an id carried by an imported record or
// fall through to SQLite's autoincrement when the record has none.
func idOrNull(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// textOrNull stores the empty string of a nullable text column as SQL NULL.
func textOrNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullToText converts a scanned nullable column back to the record's
// empty-string convention.
func nullToText(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return ns.String
}
