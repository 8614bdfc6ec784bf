package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// SettingsRepository puerto del singleton de preferencias.
type SettingsRepository interface {
	// Get retorna nil, nil si aún no se guardó nada.
	Get(ctx context.Context) (*entity.AppSettings, error)
	Save(ctx context.Context, settings *entity.AppSettings) error
}
