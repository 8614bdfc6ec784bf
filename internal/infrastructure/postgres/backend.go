package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
)

var _ kvstore.Backend = (*Backend)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS kv_records (
	seq        BIGSERIAL PRIMARY KEY,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	index_key  TEXT,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (collection, id)
);
CREATE UNIQUE INDEX IF NOT EXISTS kv_records_collection_index_key
	ON kv_records (collection, index_key) WHERE index_key IS NOT NULL;`

// Backend almacén clave-valor sobre PostgreSQL (JSONB). Usable con pool o tx (Querier).
type Backend struct {
	q    Querier
	pool *pgxpool.Pool
}

// NewBackend aplica el esquema y construye el backend sobre el pool.
func NewBackend(ctx context.Context, pool *pgxpool.Pool) (*Backend, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("migrar esquema kv_records: %w", err)
	}
	return &Backend{q: pool, pool: pool}, nil
}

func (b *Backend) Get(ctx context.Context, collection, id string) ([]byte, error) {
	var data []byte
	err := b.q.QueryRow(ctx,
		`SELECT data FROM kv_records WHERE collection = $1 AND id = $2`, collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return data, nil
}

func (b *Backend) GetAll(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := b.q.Query(ctx,
		`SELECT data FROM kv_records WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: listar %s: %v", domain.ErrStore, collection, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", domain.ErrStore, collection, err)
		}
		out = append(out, data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listar %s: %v", domain.ErrStore, collection, err)
	}
	return out, nil
}

func (b *Backend) Put(ctx context.Context, collection, id, indexKey string, data []byte) error {
	var idx *string
	if indexKey != "" {
		idx = &indexKey
	}
	query := `
		INSERT INTO kv_records (collection, id, index_key, data, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (collection, id) DO UPDATE SET
			index_key = EXCLUDED.index_key,
			data = EXCLUDED.data,
			updated_at = now()`
	if _, err := b.q.Exec(ctx, query, collection, id, idx, data); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s con índice %q ya existe", domain.ErrDuplicate, collection, indexKey)
		}
		return fmt.Errorf("%w: put %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, collection, id string) error {
	if _, err := b.q.Exec(ctx, `DELETE FROM kv_records WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return nil
}

func (b *Backend) Clear(ctx context.Context, collection string) error {
	if _, err := b.q.Exec(ctx, `DELETE FROM kv_records WHERE collection = $1`, collection); err != nil {
		return fmt.Errorf("%w: clear %s: %v", domain.ErrStore, collection, err)
	}
	return nil
}

// ClearAll borra varias colecciones en una sola transacción.
func (b *Backend) ClearAll(ctx context.Context, collections ...string) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txb := &Backend{q: tx, pool: b.pool}
	for _, c := range collections {
		if err := txb.Clear(ctx, c); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close cierra el pool.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}
