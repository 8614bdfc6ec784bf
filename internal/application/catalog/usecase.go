// Package catalog carga y cachea los catálogos de referencia del gateway FBR.
package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Catalogs catálogos base que la UI carga al abrir el editor.
type Catalogs struct {
	HSCodes          []entity.HSCode          `json:"hsCodes"`
	TransactionTypes []entity.TransactionType `json:"transactionTypes"`
	Provinces        []entity.Province        `json:"provinces"`
	// Warnings fallos degradados (catálogo vacío o por defecto).
	Warnings []string `json:"warnings,omitempty"`
}

// CatalogUseCase acceso a catálogos con cache.
type CatalogUseCase struct {
	gw    ports.FBRGateway
	cache ports.CatalogCache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCatalogUseCase construye el caso de uso. cache puede ser nil (sin cache).
func NewCatalogUseCase(gw ports.FBRGateway, cache ports.CatalogCache, ttl time.Duration, log zerolog.Logger) *CatalogUseCase {
	return &CatalogUseCase{gw: gw, cache: cache, ttl: ttl, log: log}
}

// Load carga HS codes, tipos de transacción y provincias en paralelo. Es idempotente:
// los fallos degradan a listas vacías o por defecto y se informan en Warnings.
func (uc *CatalogUseCase) Load(ctx context.Context, cred entity.Credentials) (*Catalogs, error) {
	out := &Catalogs{}
	var mu sync.Mutex
	warn := func(msg string) {
		mu.Lock()
		out.Warnings = append(out.Warnings, msg)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		codes, err := uc.HSCodes(gctx, cred)
		if err != nil {
			warn("no se pudieron cargar los HS codes: " + err.Error())
			codes = []entity.HSCode{}
		}
		out.HSCodes = codes
		return nil
	})
	g.Go(func() error {
		types, err := uc.TransactionTypes(gctx, cred)
		if err != nil {
			warn("tipos de transacción por defecto: " + err.Error())
		}
		out.TransactionTypes = types
		return nil
	})
	g.Go(func() error {
		provs, err := uc.Provinces(gctx, cred)
		if err != nil {
			warn("provincias por defecto: " + err.Error())
		}
		out.Provinces = provs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, ctx.Err()
}

// HSCodes catálogo HS (sin respaldo local: lista vacía si falla).
func (uc *CatalogUseCase) HSCodes(ctx context.Context, cred entity.Credentials) ([]entity.HSCode, error) {
	if cred.Token == "" {
		return []entity.HSCode{}, nil
	}
	return cached(ctx, uc, cred, "hs_codes", func() ([]entity.HSCode, error) {
		return uc.gw.HSCodes(ctx, cred)
	})
}

// TransactionTypes tipos de transacción; sin token o con error devuelve los incorporados
// (el error se retorna igualmente para que el llamador pueda avisar).
func (uc *CatalogUseCase) TransactionTypes(ctx context.Context, cred entity.Credentials) ([]entity.TransactionType, error) {
	if cred.Token == "" {
		return defaultTransactionTypes(), nil
	}
	types, err := cached(ctx, uc, cred, "transaction_types", func() ([]entity.TransactionType, error) {
		return uc.gw.TransactionTypes(ctx, cred)
	})
	if err != nil {
		uc.log.Warn().Err(err).Msg("tipos de transacción: usando valores por defecto")
		return defaultTransactionTypes(), err
	}
	return types, nil
}

// Provinces provincias; mismo respaldo que TransactionTypes.
func (uc *CatalogUseCase) Provinces(ctx context.Context, cred entity.Credentials) ([]entity.Province, error) {
	if cred.Token == "" {
		return defaultProvinces(), nil
	}
	provs, err := cached(ctx, uc, cred, "provinces", func() ([]entity.Province, error) {
		return uc.gw.Provinces(ctx, cred)
	})
	if err != nil {
		uc.log.Warn().Err(err).Msg("provincias: usando valores por defecto")
		return defaultProvinces(), err
	}
	return provs, nil
}

// UOMs catálogo general de unidades.
func (uc *CatalogUseCase) UOMs(ctx context.Context, cred entity.Credentials) ([]entity.UOM, error) {
	return cached(ctx, uc, cred, "uoms", func() ([]entity.UOM, error) {
		return uc.gw.UOMs(ctx, cred)
	})
}

// DocumentTypes tipos de documento.
func (uc *CatalogUseCase) DocumentTypes(ctx context.Context, cred entity.Credentials) ([]entity.DocumentType, error) {
	return cached(ctx, uc, cred, "document_types", func() ([]entity.DocumentType, error) {
		return uc.gw.DocumentTypes(ctx, cred)
	})
}

// SROItemCodes catálogo general de ítems SRO.
func (uc *CatalogUseCase) SROItemCodes(ctx context.Context, cred entity.Credentials) ([]entity.SROItem, error) {
	return cached(ctx, uc, cred, "sro_item_codes", func() ([]entity.SROItem, error) {
		return uc.gw.SROItemCodes(ctx, cred)
	})
}

// ProvinceCode código de la provincia por descripción (sin distinguir mayúsculas);
// DefaultProvinceCode si no aparece.
func (uc *CatalogUseCase) ProvinceCode(ctx context.Context, cred entity.Credentials, description string) int {
	provs, _ := uc.Provinces(ctx, cred)
	return ProvinceCodeOf(provs, description)
}

// ProvinceCodeOf busca el código en una lista ya cargada.
func ProvinceCodeOf(provs []entity.Province, description string) int {
	for _, p := range provs {
		if strings.EqualFold(strings.TrimSpace(p.Description), strings.TrimSpace(description)) {
			return p.Code
		}
	}
	return pkgfbr.DefaultProvinceCode
}

func cached[T any](ctx context.Context, uc *CatalogUseCase, cred entity.Credentials, name string, fetch func() ([]T, error)) ([]T, error) {
	key := cred.Environment + ":" + name
	if uc.cache != nil {
		var v []T
		ok, err := uc.cache.Get(ctx, key, &v)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("cache de catálogos no disponible")
		} else if ok {
			return v, nil
		}
	}
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, v, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar el catálogo en cache")
		}
	}
	return v, nil
}
