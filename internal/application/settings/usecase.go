// Package settings preferencias de la aplicación, registro de actividad y borrado de datos.
package settings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// DataClearer borra vendedores, compradores, facturas y logs (las preferencias se conservan).
type DataClearer interface {
	ClearData(ctx context.Context) error
}

// SettingsUseCase preferencias y mantenimiento del almacén local.
type SettingsUseCase struct {
	settingsRepo repository.SettingsRepository
	logRepo      repository.LogRepository
	clearer      DataClearer
	log          zerolog.Logger
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(settingsRepo repository.SettingsRepository, logRepo repository.LogRepository, clearer DataClearer, log zerolog.Logger) *SettingsUseCase {
	return &SettingsUseCase{settingsRepo: settingsRepo, logRepo: logRepo, clearer: clearer, log: log}
}

// Get preferencias vigentes (valores por defecto si nunca se guardaron).
func (uc *SettingsUseCase) Get(ctx context.Context) (*entity.AppSettings, error) {
	s, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if s == nil {
		def := entity.DefaultSettings()
		return &def, nil
	}
	return s, nil
}

// Update aplica una actualización parcial.
func (uc *SettingsUseCase) Update(ctx context.Context, in dto.SettingsRequest) (*entity.AppSettings, error) {
	s, err := uc.Get(ctx)
	if err != nil {
		return nil, err
	}
	if in.DefaultEnvironment != nil {
		if !pkgfbr.ValidEnvironment(*in.DefaultEnvironment) {
			return nil, fmt.Errorf("%w: ambiente %q", domain.ErrInvalidInput, *in.DefaultEnvironment)
		}
		s.DefaultEnvironment = *in.DefaultEnvironment
	}
	if in.DefaultCurrency != nil {
		s.DefaultCurrency = strings.ToUpper(strings.TrimSpace(*in.DefaultCurrency))
	}
	if in.Theme != nil {
		if !entity.ValidThemes[*in.Theme] {
			return nil, fmt.Errorf("%w: tema %q", domain.ErrInvalidInput, *in.Theme)
		}
		s.Theme = *in.Theme
	}
	if in.AutoSave != nil {
		s.AutoSave = *in.AutoSave
	}
	if in.ToastPosition != nil {
		if !entity.ValidToastPositions[*in.ToastPosition] {
			return nil, fmt.Errorf("%w: posición %q", domain.ErrInvalidInput, *in.ToastPosition)
		}
		s.ToastPosition = *in.ToastPosition
	}
	s.UpdatedAt = time.Now().UTC()
	if err := uc.settingsRepo.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return s, nil
}

// ClearData borra todos los datos de negocio.
func (uc *SettingsUseCase) ClearData(ctx context.Context) error {
	if err := uc.clearer.ClearData(ctx); err != nil {
		return fmt.Errorf("%w: borrar datos: %w", domain.ErrStore, err)
	}
	uc.log.Warn().Msg("datos locales borrados")
	return nil
}

// Logs entradas más recientes del registro; limit <= 0 = todas.
func (uc *SettingsUseCase) Logs(ctx context.Context, limit int) ([]*entity.ErrorLog, error) {
	list, err := uc.logRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return list, nil
}

// ClearLogs vacía el registro.
func (uc *SettingsUseCase) ClearLogs(ctx context.Context) error {
	if err := uc.logRepo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return nil
}
