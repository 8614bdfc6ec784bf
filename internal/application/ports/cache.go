package ports

import (
	"context"
	"time"
)

// CatalogCache cache de catálogos de referencia (valores serializados como JSON).
type CatalogCache interface {
	// Get decodifica el valor en dst; false si no existe o expiró.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// SubmissionLocker serializa envíos concurrentes.
type SubmissionLocker interface {
	// Acquire toma la clave sin esperar; domain.ErrConflict si ya está tomada.
	Acquire(ctx context.Context, key string) (release func(), err error)
	// AcquireWait espera a que la clave quede libre; domain.ErrConflict si ctx termina antes.
	AcquireWait(ctx context.Context, key string) (release func(), err error)
}
