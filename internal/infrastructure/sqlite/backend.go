// Package sqlite backend clave-valor embebido sobre modernc.org/sqlite (sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
)

var _ kvstore.Backend = (*Backend)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	index_key  TEXT,
	data       TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (collection, id)
);
CREATE UNIQUE INDEX IF NOT EXISTS records_collection_index_key
	ON records (collection, index_key) WHERE index_key IS NOT NULL;`

// Backend almacén en un archivo SQLite con una única tabla de registros.
type Backend struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" sirve para pruebas.
func Open(ctx context.Context, path string) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", path, err)
	}
	// Un solo escritor: evita SQLITE_BUSY entre conexiones del pool.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrar esquema: %w", err)
	}
	return &Backend{db: db}, nil
}

func (b *Backend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var data string
	err := b.db.QueryRowContext(ctx,
		`SELECT data FROM records WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return []byte(data), nil
}

func (b *Backend) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT data FROM records WHERE collection = ? ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: listar %s: %v", domain.ErrStore, collection, err)
	}
	defer func() { _ = rows.Close() }()

	var out [][]byte
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", domain.ErrStore, collection, err)
		}
		out = append(out, []byte(data))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listar %s: %v", domain.ErrStore, collection, err)
	}
	return out, nil
}

func (b *Backend) Put(ctx context.Context, collection, id, indexKey string, data []byte) error {
	var idx any
	if indexKey != "" {
		idx = indexKey
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO records (collection, id, index_key, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET
			index_key = excluded.index_key,
			data = excluded.data,
			updated_at = excluded.updated_at`,
		collection, id, idx, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s con índice %q ya existe", domain.ErrDuplicate, collection, indexKey)
		}
		return fmt.Errorf("%w: put %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return nil
}

func (b *Backend) Clear(ctx context.Context, collection string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("%w: clear %s: %v", domain.ErrStore, collection, err)
	}
	return nil
}

// Close cierra la base.
func (b *Backend) Close() error { return b.db.Close() }

// isUniqueViolation verifica si un error es una violación de índice único.
func isUniqueViolation(err error) bool {
	var sqErr *msqlite.Error
	if errors.As(err, &sqErr) {
		return sqErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
