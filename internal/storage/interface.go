/*
Package storage implements the SQLite store for Mars weather records.

The database holds exactly two tables: weather_data, one row per sol keyed
by a UNIQUE sol column, and api_metadata, an append-only audit log with one
row per ingest run. It uses modernc.org/sqlite (a pure Go, CGo-free
implementation).

Every operation acquires its own connection from the pool and releases it
before returning, so no transaction spans two calls. There is no
application-level locking: concurrent writers to the same sol resolve as
last-writer-wins through SQLite's own isolation.
*/
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
)

// ErrNotInitialized is returned by operations called before Init or after Close.
var ErrNotInitialized = errors.New("storage not initialized")

// Storage defines the persistent storage operations.
type Storage interface {
	// Init opens the database and creates the schema.
	Init(ctx context.Context) error

	// UpsertWeather inserts or fully replaces one row per sol, atomically.
	UpsertWeather(ctx context.Context, records map[int]models.WeatherFields) error

	// AppendMetadata records one ingest run in the audit log.
	AppendMetadata(ctx context.Context, totalSols int, rawResponse any) error

	// GetAll returns every record, sol descending.
	GetAll(ctx context.Context) ([]models.WeatherRecord, error)

	// GetRecent returns at most limit records, sol descending.
	GetRecent(ctx context.Context, limit int) ([]models.WeatherRecord, error)

	// GetBySol returns the record for sol, or nil when it is not stored.
	GetBySol(ctx context.Context, sol int) (*models.WeatherRecord, error)

	// GetLatest returns the record with the highest sol, or nil when empty.
	GetLatest(ctx context.Context) (*models.WeatherRecord, error)

	// GetStatistics aggregates all stored records.
	GetStatistics(ctx context.Context) (models.Statistics, error)

	// Close closes the database.
	Close() error
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	logger   *zap.Logger
	now      func() time.Time
	initOnce sync.Once
	initErr  error
}

// NewStorage creates a storage instance for the SQLite file at dbPath.
// Nothing is opened until Init.
func NewStorage(dbPath string, logger *zap.Logger) *SQLiteStorage {
	return &SQLiteStorage{
		dbPath: dbPath,
		logger: observability.OrNop(logger),
		now:    time.Now,
	}
}

// Init opens the database file, creating its directory if needed, and
// runs the idempotent schema DDL. Safe to call on every startup.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		if dir := filepath.Dir(s.dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				s.initErr = fmt.Errorf("failed to create db directory: %w", err)
				return
			}
		}

		db, err := sql.Open("sqlite", s.dbPath+"?_pragma=busy_timeout(5000)")
		if err != nil {
			s.initErr = fmt.Errorf("failed to open database: %w", err)
			return
		}

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			s.initErr = fmt.Errorf("failed to ping database: %w", err)
			return
		}
		s.db = db

		if err := s.InitSchema(ctx); err != nil {
			db.Close()
			s.db = nil
			s.initErr = fmt.Errorf("failed to create schema: %w", err)
			return
		}
		s.logger.Debug("database initialized", zap.String("path", s.dbPath))
	})

	return s.initErr
}

// Close closes the database connection. A closed store can be opened
// again with Init.
func (s *SQLiteStorage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.initOnce = sync.Once{}
	s.initErr = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// withConn runs fn on a connection acquired for this call only.
func (s *SQLiteStorage) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	if s.db == nil {
		return ErrNotInitialized
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(conn)
}

// withTx runs fn in a transaction on a per-call connection. Any error rolls
// the whole transaction back, is logged and counted, and is returned.
func (s *SQLiteStorage) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", zap.String("operation", op), zap.Error(rbErr))
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
	if err != nil {
		observability.StoreWriteErrorsTotal.WithLabelValues(op).Inc()
		s.logger.Warn("store write failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
