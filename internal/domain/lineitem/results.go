package lineitem

import (
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Parches que aplican el resultado de una consulta remota. En todos, el valor
// por defecto es la primera opción devuelta.

// UOMResolved opciones de unidad para el HS code; uom pasa a la primera (o PCS si no hay).
func UOMResolved(options []string) Patch {
	uom := fbr.DefaultUOM
	if len(options) > 0 {
		uom = options[0]
	}
	return Patch{UOMOptions: Some(options), UOM: Some(uom)}
}

// UOMFailed fallo al consultar unidades: se conserva lo conocido y solo se asigna PCS si no había unidad.
func UOMFailed(item entity.InvoiceItem) Patch {
	if item.UOM != "" {
		return Patch{}
	}
	return Patch{UOM: Some(fbr.DefaultUOM)}
}

// TaxRatesResolved nuevas tarifas para el tipo de transacción: tarifa 0 y cadena SRO limpia.
func TaxRatesResolved(options []entity.TaxRateOption) Patch {
	p := resetTaxChain()
	p.TaxRateOptions = Some(options)
	return p
}

// SROChainResolved anexos para la tarifa y los ítems del primer anexo.
func SROChainResolved(schedules []entity.SROSchedule, items []entity.SROItem) Patch {
	p := Patch{
		SROScheduleOptions: Some(schedules),
		SROSchedule:        Clear[*int](),
		SROItemOptions:     Clear[[]entity.SROItem](),
		SROItem:            Clear[*int](),
	}
	if len(schedules) == 0 {
		return p
	}
	p.SROSchedule = Some(IntRef(schedules[0].ID))
	return p.Then(SROItemsResolved(items))
}

// SROItemsResolved ítems del anexo seleccionado.
func SROItemsResolved(items []entity.SROItem) Patch {
	p := Patch{SROItemOptions: Some(items), SROItem: Clear[*int]()}
	if len(items) > 0 {
		p.SROItem = Some(IntRef(items[0].ID))
	}
	return p
}
