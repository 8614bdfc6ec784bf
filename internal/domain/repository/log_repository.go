package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// LogRepository puerto del registro local de errores/actividad.
type LogRepository interface {
	Append(ctx context.Context, entry *entity.ErrorLog) error
	// List devuelve las entradas más recientes primero; limit <= 0 = todas.
	List(ctx context.Context, limit int) ([]*entity.ErrorLog, error)
	Clear(ctx context.Context) error
}
