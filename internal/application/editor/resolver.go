package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
)

// Scope datos del encabezado que parametrizan las consultas dependientes.
type Scope struct {
	Credentials  entity.Credentials
	Date         time.Time
	ProvinceCode int
	AnnexureID   int
}

// Resolver ejecuta contra el gateway la consulta planificada para una edición y la
// traduce a un parche de resultado.
type Resolver struct {
	gw ports.FBRGateway
}

// NewResolver construye el resolvedor.
func NewResolver(gw ports.FBRGateway) *Resolver {
	return &Resolver{gw: gw}
}

// Resolve devuelve el parche a aplicar sobre la línea. No modifica nada.
func (r *Resolver) Resolve(ctx context.Context, sc Scope, f lineitem.Fetch) (lineitem.Patch, error) {
	switch f.Kind {
	case lineitem.FetchUOM:
		opts, err := r.gw.HSUOM(ctx, sc.Credentials, f.HSCode, sc.AnnexureID)
		if err != nil {
			return lineitem.Patch{}, fmt.Errorf("unidades para HS %s: %w", f.HSCode, err)
		}
		return lineitem.UOMResolved(opts), nil

	case lineitem.FetchTaxRates:
		opts, err := r.gw.TaxRates(ctx, sc.Credentials, sc.Date, f.TransTypeID, sc.ProvinceCode)
		if err != nil {
			return lineitem.Patch{}, fmt.Errorf("tarifas para tipo %d: %w", f.TransTypeID, err)
		}
		return lineitem.TaxRatesResolved(opts), nil

	case lineitem.FetchSROChain:
		schedules, err := r.gw.SROSchedules(ctx, sc.Credentials, f.RateID, sc.Date, sc.ProvinceCode)
		if err != nil {
			return lineitem.Patch{}, fmt.Errorf("anexos SRO para tarifa %d: %w", f.RateID, err)
		}
		var items []entity.SROItem
		if len(schedules) > 0 {
			items, err = r.gw.SROItems(ctx, sc.Credentials, sc.Date, schedules[0].ID)
			if err != nil {
				return lineitem.Patch{}, fmt.Errorf("ítems SRO del anexo %d: %w", schedules[0].ID, err)
			}
		}
		return lineitem.SROChainResolved(schedules, items), nil

	case lineitem.FetchSROItems:
		items, err := r.gw.SROItems(ctx, sc.Credentials, sc.Date, f.SROScheduleID)
		if err != nil {
			return lineitem.Patch{}, fmt.Errorf("ítems SRO del anexo %d: %w", f.SROScheduleID, err)
		}
		return lineitem.SROItemsResolved(items), nil
	}
	return lineitem.Patch{}, fmt.Errorf("consulta desconocida %s", f.Kind)
}
