package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect holds the driver name and statements for one SQL database.
type Dialect struct {
	Name   string
	Driver string
	create string
	get    string
	upsert string
	delete string
}

var (
	SQLite = Dialect{
		Name:   "sqlite",
		Driver: "sqlite3",
		create: `CREATE TABLE IF NOT EXISTS todo_kv (
            k TEXT PRIMARY KEY,
            v TEXT NOT NULL
        )`,
		get:    `SELECT v FROM todo_kv WHERE k = ?`,
		upsert: `INSERT INTO todo_kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
		delete: `DELETE FROM todo_kv WHERE k = ?`,
	}

	MySQL = Dialect{
		Name:   "mysql",
		Driver: "mysql",
		create: `CREATE TABLE IF NOT EXISTS todo_kv (
            k VARCHAR(191) PRIMARY KEY,
            v LONGTEXT NOT NULL
        )`,
		get:    `SELECT v FROM todo_kv WHERE k = ?`,
		upsert: `INSERT INTO todo_kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		delete: `DELETE FROM todo_kv WHERE k = ?`,
	}

	Postgres = Dialect{
		Name:   "postgres",
		Driver: "pgx",
		create: `CREATE TABLE IF NOT EXISTS todo_kv (
            k TEXT PRIMARY KEY,
            v TEXT NOT NULL
        )`,
		get:    `SELECT v FROM todo_kv WHERE k = $1`,
		upsert: `INSERT INTO todo_kv (k, v) VALUES ($1, $2) ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`,
		delete: `DELETE FROM todo_kv WHERE k = $1`,
	}
)

// SQL stores keys as rows of a two-column table.
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQL connects with the dialect's driver and creates the table.
// For SQLite, dsn is a file path whose directory is created if needed.
func OpenSQL(ctx context.Context, d Dialect, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s store: empty dsn", d.Name)
	}
	if d.Driver == SQLite.Driver && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0700); err != nil {
			return nil, fmt.Errorf("%s store: %w", d.Name, err)
		}
	}

	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s store: open: %w", d.Name, err)
	}
	if d.Driver == SQLite.Driver {
		// One connection keeps ":memory:" databases alive across calls.
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s store: ping: %w", d.Name, err)
	}

	s := &SQL{db: db, dialect: d}
	if _, err := db.ExecContext(ctx, d.create); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s store: create table: %w", d.Name, err)
	}
	return s, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%s store: get %s: %w", s.dialect.Name, key, err)
	}
	return v, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value); err != nil {
		return fmt.Errorf("%s store: set %s: %w", s.dialect.Name, key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.delete, key); err != nil {
		return fmt.Errorf("%s store: delete %s: %w", s.dialect.Name, key, err)
	}
	return nil
}

func (s *SQL) Close() error { return s.db.Close() }
