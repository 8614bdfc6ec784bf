// Package kvstore implementa los repositorios del dominio sobre un almacén clave-valor
// por colección (sellers, buyers, invoices, settings, logs). Los registros se guardan
// como JSON; sellers y buyers indexan su NTN con unicidad.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
)

// Colecciones.
const (
	CollectionSellers  = "sellers"
	CollectionBuyers   = "buyers"
	CollectionInvoices = "invoices"
	CollectionSettings = "settings"
	CollectionLogs     = "logs"
)

// Backend operaciones mínimas de persistencia por colección.
// Get retorna domain.ErrNotFound si no existe el id; Put retorna domain.ErrDuplicate si
// indexKey (no vacío) ya pertenece a otro registro de la colección.
type Backend interface {
	Get(ctx context.Context, collection, id string) ([]byte, error)
	// GetAll devuelve los registros en orden de inserción.
	GetAll(ctx context.Context, collection string) ([][]byte, error)
	Put(ctx context.Context, collection, id, indexKey string, data []byte) error
	Delete(ctx context.Context, collection, id string) error
	Clear(ctx context.Context, collection string) error
	Close() error
}

func put(ctx context.Context, b Backend, collection, id, indexKey string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kvstore: serializar %s/%s: %w", collection, id, err)
	}
	return b.Put(ctx, collection, id, indexKey, data)
}

// get decodifica el registro; retorna nil, nil si no existe (convención de los repositorios).
func get[T any](ctx context.Context, b Backend, collection, id string) (*T, error) {
	data, err := b.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: decodificar %s/%s: %v", domain.ErrStore, collection, id, err)
	}
	return &v, nil
}

func getAll[T any](ctx context.Context, b Backend, collection string) ([]*T, error) {
	rows, err := b.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(rows))
	for _, data := range rows {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: decodificar %s: %v", domain.ErrStore, collection, err)
		}
		out = append(out, &v)
	}
	return out, nil
}
