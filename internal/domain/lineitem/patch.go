// Package lineitem contiene la cadena de campos dependientes de una línea de factura:
// parches tipados, el reductor puro que los aplica y la planificación de cada edición.
//
// Cadena: hsCode → uomOptions/uom y, en paralelo,
// serviceTypeId → taxRateOptions → taxRate/rateId → sroScheduleOptions → sroSchedule → sroItemOptions → sroItem.
package lineitem

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// Opt valor opcional de un parche: Set=false significa "no tocar el campo".
type Opt[T any] struct {
	Set   bool
	Value T
}

// Some construye un Opt asignado.
func Some[T any](v T) Opt[T] { return Opt[T]{Set: true, Value: v} }

// Clear construye un Opt asignado al valor cero (nil para punteros y slices).
func Clear[T any]() Opt[T] {
	var zero T
	return Opt[T]{Set: true, Value: zero}
}

func (o Opt[T]) orElse(cur T) T {
	if o.Set {
		return o.Value
	}
	return cur
}

// Patch actualización parcial de una línea. Los campos sin Set conservan el valor actual.
type Patch struct {
	HSCode        Opt[string]
	Description   Opt[string]
	ServiceTypeID Opt[int]
	SaleType      Opt[string]
	UOM           Opt[string]
	Quantity      Opt[decimal.Decimal]
	UnitPrice     Opt[decimal.Decimal]
	TaxRate       Opt[decimal.Decimal]
	RateID        Opt[*int]
	SROSchedule   Opt[*int]
	SROItem       Opt[*int]

	UOMOptions         Opt[[]string]
	TaxRateOptions     Opt[[]entity.TaxRateOption]
	SROScheduleOptions Opt[[]entity.SROSchedule]
	SROItemOptions     Opt[[]entity.SROItem]
}

// Apply reductor puro: devuelve una copia de item con el parche fusionado.
func Apply(item entity.InvoiceItem, p Patch) entity.InvoiceItem {
	out := item.Clone()
	out.HSCode = p.HSCode.orElse(out.HSCode)
	out.Description = p.Description.orElse(out.Description)
	out.ServiceTypeID = p.ServiceTypeID.orElse(out.ServiceTypeID)
	out.SaleType = p.SaleType.orElse(out.SaleType)
	out.UOM = p.UOM.orElse(out.UOM)
	out.Quantity = p.Quantity.orElse(out.Quantity)
	out.UnitPrice = p.UnitPrice.orElse(out.UnitPrice)
	out.TaxRate = p.TaxRate.orElse(out.TaxRate)
	out.RateID = intPtr(p.RateID.orElse(out.RateID))
	out.SROSchedule = intPtr(p.SROSchedule.orElse(out.SROSchedule))
	out.SROItem = intPtr(p.SROItem.orElse(out.SROItem))

	if p.UOMOptions.Set {
		out.UOMOptions = append([]string(nil), p.UOMOptions.Value...)
	}
	if p.TaxRateOptions.Set {
		out.TaxRateOptions = append([]entity.TaxRateOption(nil), p.TaxRateOptions.Value...)
	}
	if p.SROScheduleOptions.Set {
		out.SROScheduleOptions = append([]entity.SROSchedule(nil), p.SROScheduleOptions.Value...)
	}
	if p.SROItemOptions.Set {
		out.SROItemOptions = append([]entity.SROItem(nil), p.SROItemOptions.Value...)
	}
	return out
}

// Then compone dos parches; en los campos que ambos asignan gana next.
func (p Patch) Then(next Patch) Patch {
	out := p
	mergeOpt(&out.HSCode, next.HSCode)
	mergeOpt(&out.Description, next.Description)
	mergeOpt(&out.ServiceTypeID, next.ServiceTypeID)
	mergeOpt(&out.SaleType, next.SaleType)
	mergeOpt(&out.UOM, next.UOM)
	mergeOpt(&out.Quantity, next.Quantity)
	mergeOpt(&out.UnitPrice, next.UnitPrice)
	mergeOpt(&out.TaxRate, next.TaxRate)
	mergeOpt(&out.RateID, next.RateID)
	mergeOpt(&out.SROSchedule, next.SROSchedule)
	mergeOpt(&out.SROItem, next.SROItem)
	mergeOpt(&out.UOMOptions, next.UOMOptions)
	mergeOpt(&out.TaxRateOptions, next.TaxRateOptions)
	mergeOpt(&out.SROScheduleOptions, next.SROScheduleOptions)
	mergeOpt(&out.SROItemOptions, next.SROItemOptions)
	return out
}

// IsEmpty indica si el parche no asigna ningún campo.
func (p Patch) IsEmpty() bool {
	return !(p.HSCode.Set || p.Description.Set || p.ServiceTypeID.Set || p.SaleType.Set ||
		p.UOM.Set || p.Quantity.Set || p.UnitPrice.Set || p.TaxRate.Set || p.RateID.Set ||
		p.SROSchedule.Set || p.SROItem.Set || p.UOMOptions.Set || p.TaxRateOptions.Set ||
		p.SROScheduleOptions.Set || p.SROItemOptions.Set)
}

func mergeOpt[T any](dst *Opt[T], next Opt[T]) {
	if next.Set {
		*dst = next
	}
}

func intPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntRef atajo para construir *int en parches.
func IntRef(v int) *int { return &v }

// resetTaxChain limpia tarifa, SRO y sus listas (contexto tributario inválido).
func resetTaxChain() Patch {
	return Patch{
		TaxRate:            Some(decimal.Zero),
		RateID:             Clear[*int](),
		TaxRateOptions:     Clear[[]entity.TaxRateOption](),
		SROSchedule:        Clear[*int](),
		SROScheduleOptions: Clear[[]entity.SROSchedule](),
		SROItem:            Clear[*int](),
		SROItemOptions:     Clear[[]entity.SROItem](),
	}
}

// resetSRO limpia anexo e ítem SRO y sus listas.
func resetSRO() Patch {
	return Patch{
		SROSchedule:        Clear[*int](),
		SROScheduleOptions: Clear[[]entity.SROSchedule](),
		SROItem:            Clear[*int](),
		SROItemOptions:     Clear[[]entity.SROItem](),
	}
}
