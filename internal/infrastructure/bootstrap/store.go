// Package bootstrap construye la infraestructura según la configuración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/postgres"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/sqlite"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
)

// OpenStore abre el backend indicado por STORE_DRIVER y arma los repositorios.
// El llamador cierra el store con Store.Close.
func OpenStore(ctx context.Context, cfg *config.Config) (*kvstore.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return kvstore.NewStore(kvstore.NewMemoryBackend()), nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		b, err := postgres.NewBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return kvstore.NewStore(b), nil
	default:
		b, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return kvstore.NewStore(b), nil
	}
}
