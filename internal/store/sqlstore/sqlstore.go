// ============================================================================
// livelog - Echtzeit Log Viewer
// ============================================================================
//
// Package:     sqlstore
// Description: Store backend on SQLite or PostgreSQL with embedded migrations
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	postgres_migrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlite_migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/guregu/null"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/livelog/foundation/core/error"
	"github.com/msto63/livelog/internal/store"
)

//go:embed migrations/*
var migfs embed.FS

// Driver names accepted by Open
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store keeps values in a kv table
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// OpenSQLite opens (and creates) a SQLite database file in WAL mode
func OpenSQLite(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return Open(DriverSQLite, path+"?_journal_mode=WAL&_busy_timeout=5000")
}

// OpenPostgres connects with a postgres:// DSN
func OpenPostgres(dsn string) (*Store, error) {
	return Open(DriverPostgres, dsn)
}

// Open connects and runs migrations for driver
func Open(driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, mdwerror.New(fmt.Sprintf("unsupported driver %q", driver)).
			WithCode(mdwerror.CodeInvalidConfig)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").WithCode(mdwerror.CodeDatabaseError)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, driver: driver, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to run storage migrations").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("driver", driver)
	}
	return s, nil
}

// migrate applies the embedded migrations. The migrate instance is not
// closed because that would close the shared *sql.DB.
func (s *Store) migrate() error {
	source, err := iofs.New(migfs, "migrations/"+s.driver)
	if err != nil {
		return err
	}

	var target database.Driver
	switch s.driver {
	case DriverSQLite:
		target, err = sqlite_migrate.WithInstance(s.db, &sqlite_migrate.Config{})
	case DriverPostgres:
		target, err = postgres_migrate.WithInstance(s.db, &postgres_migrate.Config{})
	}
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, s.driver, target)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Get returns the value for key. A NULL value counts as not found.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value null.String
	err := s.db.QueryRowContext(ctx, s.query(selectQuery), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "query kv").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("key", key)
	}
	if !value.Valid {
		return nil, store.ErrNotFound
	}
	return []byte(value.String), nil
}

// Set upserts the value for key
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	var updated interface{} = s.now().UTC()
	if s.driver == DriverSQLite {
		updated = s.now().UnixMilli()
	}

	if _, err := s.db.ExecContext(ctx, s.query(upsertQuery), key, null.StringFrom(string(value)), updated); err != nil {
		return mdwerror.Wrap(err, "upsert kv").
			WithCode(mdwerror.CodeDatabaseError).
			WithDetail("key", key)
	}
	return nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type queryKind int

const (
	selectQuery queryKind = iota
	upsertQuery
)

func (s *Store) query(kind queryKind) string {
	if s.driver == DriverPostgres {
		switch kind {
		case selectQuery:
			return `SELECT value FROM kv WHERE key = $1`
		default:
			return `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, $3)
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
		}
	}
	switch kind {
	case selectQuery:
		return `SELECT value FROM kv WHERE key = ?`
	default:
		return `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}
}
