package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/bootstrap"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
)

func TestOpenStore_SQLitePersisteEntreAperturas(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "app.db")}}

	store, err := bootstrap.OpenStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, store.Sellers.Save(ctx, &entity.Seller{ID: "s1", NTN: "1234567"}))
	require.NoError(t, store.Close())

	store, err = bootstrap.OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Sellers.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1234567", got.NTN)
}

func TestOpenStore_Memoria(t *testing.T) {
	store, err := bootstrap.OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "memory"}})
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}
