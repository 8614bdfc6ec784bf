package settings_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/settings"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
)

func setup(t *testing.T) (*settings.SettingsUseCase, *kvstore.Store) {
	t.Helper()
	store := kvstore.NewStore(kvstore.NewMemoryBackend())
	return settings.NewSettingsUseCase(store.Settings, store.Logs, store, zerolog.Nop()), store
}

func ptr[T any](v T) *T { return &v }

func TestGet_ValoresPorDefecto(t *testing.T) {
	uc, _ := setup(t)
	s, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sandbox", s.DefaultEnvironment)
	assert.Equal(t, "PKR", s.DefaultCurrency)
	assert.True(t, s.AutoSave)
}

func TestUpdate_Parcial(t *testing.T) {
	uc, _ := setup(t)

	_, err := uc.Update(context.Background(), dto.SettingsRequest{
		DefaultEnvironment: ptr("production"),
		DefaultCurrency:    ptr(" usd "),
		AutoSave:           ptr(false),
	})
	require.NoError(t, err)

	s, err := uc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "production", s.DefaultEnvironment)
	assert.Equal(t, "USD", s.DefaultCurrency)
	assert.False(t, s.AutoSave)
	assert.Equal(t, "system", s.Theme)
}

func TestUpdate_ValoresInvalidos(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Update(context.Background(), dto.SettingsRequest{DefaultEnvironment: ptr("staging")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(context.Background(), dto.SettingsRequest{Theme: ptr("neon")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(context.Background(), dto.SettingsRequest{ToastPosition: ptr("middle")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClearData_ConservaPreferencias(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	_, err := uc.Update(ctx, dto.SettingsRequest{Theme: ptr("dark")})
	require.NoError(t, err)
	require.NoError(t, store.Sellers.Save(ctx, &entity.Seller{ID: "s1", NTN: "1234567"}))
	require.NoError(t, store.Logs.Append(ctx, &entity.ErrorLog{ID: "l1", Timestamp: time.Now(), Level: entity.LogLevelInfo, Message: "x"}))

	require.NoError(t, uc.ClearData(ctx))

	sellers, err := store.Sellers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sellers)
	logs, err := uc.Logs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)

	s, err := uc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dark", s.Theme)
}

func TestLogs_LimiteYVaciado(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Logs.Append(ctx, &entity.ErrorLog{ID: id, Timestamp: time.Now(), Level: entity.LogLevelWarning, Message: id}))
	}

	logs, err := uc.Logs(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	require.NoError(t, uc.ClearLogs(ctx))
	logs, err = uc.Logs(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
