package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// SQLiteBackend stores every namespace in one SQLite table.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path and applies
// pending schema migrations.
//
// Parameters:
//   - path: The database file
//
// Returns:
//   - *SQLiteBackend: The opened backend
//   - error: Any error opening or migrating the database
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := migrateSQLite(path); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", path, err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	return &SQLiteBackend{db: db, path: path}, nil
}

// migrateSQLite applies the embedded migrations on a connection of its own;
// the migrate driver closes its database when done.
func migrateSQLite(path string) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Namespace implements Backend.
func (b *SQLiteBackend) Namespace(name string) (KV, error) {
	return &sqliteKV{db: b.db, namespace: name}, nil
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// sqliteKV is one namespace of a SQLiteBackend.
type sqliteKV struct {
	db        *sql.DB
	namespace string
}

func (s *sqliteKV) Get(key string) (string, error) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s/%s: %w", s.namespace, key, err)
	}
	return v, nil
}

func (s *sqliteKV) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (namespace, key, value, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

func (s *sqliteKV) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

func (s *sqliteKV) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv WHERE namespace = ? ORDER BY key`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.namespace, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.namespace, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
