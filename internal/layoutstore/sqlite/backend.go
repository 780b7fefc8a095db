// Package sqlite is the durable layoutstore backend: one row per
// (panel_id, field) in a small SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"floatview/internal/logging"
	_ "github.com/ncruces/go-sqlite3/driver" // SQLite driver (pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed SQLite WASM binary
)

const schema = `
CREATE TABLE IF NOT EXISTS panel_layout (
	panel_id   TEXT NOT NULL,
	field      TEXT NOT NULL,
	value      BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (panel_id, field)
)`

// Backend implements layoutstore.Backend on SQLite
type Backend struct {
	db *sql.DB
}

// Open creates (if needed) and opens the layout database at path.
func Open(ctx context.Context, path string) (*Backend, error) {
	const dbDirPerm = 0o750
	log := logging.FromContext(ctx)

	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), dbDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Panels write from a single event loop; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create layout table: %w", err)
	}

	log.Info().Str("path", path).Msg("layout database ready")
	return &Backend{db: db}, nil
}

// Close closes the underlying database
func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	panelID, field, err := splitKey(key)
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = b.db.QueryRowContext(ctx,
		`SELECT value FROM panel_layout WHERE panel_id = ? AND field = ?`,
		panelID, field,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read layout %q: %w", key, err)
	}
	return value, true, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	panelID, field, err := splitKey(key)
	if err != nil {
		return err
	}

	_, err = b.db.ExecContext(ctx,
		`INSERT INTO panel_layout (panel_id, field, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (panel_id, field) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		panelID, field, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write layout %q: %w", key, err)
	}
	return nil
}

// Fields lists the fields stored for a panel
func (b *Backend) Fields(ctx context.Context, panelID string) ([]string, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT field FROM panel_layout WHERE panel_id = ? ORDER BY field`, panelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list layout fields: %w", err)
	}
	defer rows.Close()

	var fields []string
	for rows.Next() {
		var field string
		if err := rows.Scan(&field); err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}

// splitKey undoes layoutstore.Key. Panel ids may contain slashes; the field never does.
func splitKey(key string) (panelID, field string, err error) {
	i := strings.LastIndex(key, "/")
	if i <= 0 || i == len(key)-1 {
		return "", "", fmt.Errorf("malformed layout key %q", key)
	}
	return key[:i], key[i+1:], nil
}
