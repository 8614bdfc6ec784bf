package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports/portstest"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/cache"
)

var sandbox = entity.Credentials{Token: "tok", Environment: "sandbox"}

func newGateway() *portstest.Gateway {
	return &portstest.Gateway{
		HSCodesFn: func(context.Context) ([]entity.HSCode, error) {
			return []entity.HSCode{{Code: "0101.2100", Description: "HORSES"}, {Code: "8471.3010", Description: "LAPTOPS"}}, nil
		},
		TransTypesFn: func(context.Context) ([]entity.TransactionType, error) {
			return []entity.TransactionType{{ID: 18, Description: "Services"}, {ID: 75, Description: "Goods at standard rate (default)"}}, nil
		},
		ProvincesFn: func(context.Context) ([]entity.Province, error) {
			return []entity.Province{{Code: 7, Description: "PUNJAB"}, {Code: 8, Description: "SINDH"}}, nil
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Load
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_CargaLosTresCatalogos(t *testing.T) {
	uc := catalog.NewCatalogUseCase(newGateway(), nil, time.Hour, zerolog.Nop())

	c, err := uc.Load(context.Background(), sandbox)
	require.NoError(t, err)
	assert.Len(t, c.HSCodes, 2)
	assert.Len(t, c.TransactionTypes, 2)
	assert.Len(t, c.Provinces, 2)
	assert.Empty(t, c.Warnings)
}

func TestLoad_FallosDegradanConAviso(t *testing.T) {
	gw := newGateway()
	gw.HSCodesFn = func(context.Context) ([]entity.HSCode, error) { return nil, domain.ErrGatewayUnavailable }
	gw.ProvincesFn = func(context.Context) ([]entity.Province, error) { return nil, errors.New("boom") }
	uc := catalog.NewCatalogUseCase(gw, nil, time.Hour, zerolog.Nop())

	c, err := uc.Load(context.Background(), sandbox)
	require.NoError(t, err)
	assert.Empty(t, c.HSCodes)
	assert.NotNil(t, c.HSCodes)
	assert.Len(t, c.Provinces, 7, "provincias por defecto")
	assert.Len(t, c.Warnings, 2)
}

func TestLoad_SinTokenUsaValoresPorDefecto(t *testing.T) {
	gw := newGateway()
	uc := catalog.NewCatalogUseCase(gw, nil, time.Hour, zerolog.Nop())

	c, err := uc.Load(context.Background(), entity.Credentials{Environment: "sandbox"})
	require.NoError(t, err)
	assert.Empty(t, c.HSCodes)
	assert.Equal(t, 18, c.TransactionTypes[0].ID)
	assert.Equal(t, "BALOCHISTAN", c.Provinces[0].Description)
	assert.Zero(t, gw.Calls("hs_codes"))
	assert.Zero(t, gw.Calls("provinces"))
}

func TestLoad_Idempotente_UsaCache(t *testing.T) {
	gw := newGateway()
	uc := catalog.NewCatalogUseCase(gw, cache.NewCatalogCache(16, time.Hour), time.Hour, zerolog.Nop())

	first, err := uc.Load(context.Background(), sandbox)
	require.NoError(t, err)
	second, err := uc.Load(context.Background(), sandbox)
	require.NoError(t, err)

	assert.Equal(t, first.HSCodes, second.HSCodes)
	assert.Equal(t, 1, gw.Calls("hs_codes"))
	assert.Equal(t, 1, gw.Calls("transaction_types"))
	assert.Equal(t, 1, gw.Calls("provinces"))
}

func TestLoad_CachePorAmbiente(t *testing.T) {
	gw := newGateway()
	uc := catalog.NewCatalogUseCase(gw, cache.NewCatalogCache(16, time.Hour), time.Hour, zerolog.Nop())

	_, err := uc.HSCodes(context.Background(), sandbox)
	require.NoError(t, err)
	_, err = uc.HSCodes(context.Background(), entity.Credentials{Token: "p", Environment: "production"})
	require.NoError(t, err)
	assert.Equal(t, 2, gw.Calls("hs_codes"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Provincias e índice
// ──────────────────────────────────────────────────────────────────────────────

func TestProvinceCode_SinCoincidenciaDevuelveUno(t *testing.T) {
	uc := catalog.NewCatalogUseCase(newGateway(), nil, time.Hour, zerolog.Nop())

	assert.Equal(t, 8, uc.ProvinceCode(context.Background(), sandbox, "sindh"))
	assert.Equal(t, 1, uc.ProvinceCode(context.Background(), sandbox, "ATLANTIS"))
}

func TestIndex_Etiquetas(t *testing.T) {
	uc := catalog.NewCatalogUseCase(newGateway(), nil, time.Hour, zerolog.Nop())
	c, err := uc.Load(context.Background(), sandbox)
	require.NoError(t, err)

	idx := catalog.NewIndex(c)
	desc, ok := idx.HSDescription("8471.3010")
	assert.True(t, ok)
	assert.Equal(t, "LAPTOPS", desc)
	_, ok = idx.HSDescription("0000.0000")
	assert.False(t, ok)
	tt, ok := idx.TransactionDescription(75)
	assert.True(t, ok)
	assert.Equal(t, "Goods at standard rate (default)", tt)
	assert.Equal(t, "0101.2100", idx.FirstHSCode().Code)
	assert.Equal(t, 7, idx.ProvinceCode("PUNJAB"))
}
