package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea gravable de la factura, junto con las listas de opciones
// obtenidas para cada campo dependiente.
//
// Invariante: SROSchedule, SROItem y RateID, si no son nil, referencian una
// entrada presente en SROScheduleOptions, SROItemOptions y TaxRateOptions.
type InvoiceItem struct {
	ID            string          `json:"id"`
	HSCode        string          `json:"hsCode"`
	Description   string          `json:"description"`
	ServiceTypeID int             `json:"serviceTypeId"`
	SaleType      string          `json:"saleType"` // etiqueta del tipo de transacción
	UOM           string          `json:"uom"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TaxRate       decimal.Decimal `json:"taxRate"` // porcentaje, ej. 17
	RateID        *int            `json:"rateId,omitempty"`
	SROSchedule   *int            `json:"sroSchedule,omitempty"`
	SROItem       *int            `json:"sroItem,omitempty"`
	AnnexureID    int             `json:"annexureId"`

	UOMOptions         []string        `json:"uomOptions"`
	TaxRateOptions     []TaxRateOption `json:"taxRateOptions"`
	SROScheduleOptions []SROSchedule   `json:"sroScheduleOptions"`
	SROItemOptions     []SROItem       `json:"sroItemOptions"`
}

// Clone copia profunda (las listas de opciones no se comparten).
func (it InvoiceItem) Clone() InvoiceItem {
	out := it
	out.RateID = cloneIntPtr(it.RateID)
	out.SROSchedule = cloneIntPtr(it.SROSchedule)
	out.SROItem = cloneIntPtr(it.SROItem)
	out.UOMOptions = append([]string(nil), it.UOMOptions...)
	out.TaxRateOptions = append([]TaxRateOption(nil), it.TaxRateOptions...)
	out.SROScheduleOptions = append([]SROSchedule(nil), it.SROScheduleOptions...)
	out.SROItemOptions = append([]SROItem(nil), it.SROItemOptions...)
	return out
}

// SelectedSROSchedule devuelve la opción del anexo seleccionado, si existe.
func (it InvoiceItem) SelectedSROSchedule() (SROSchedule, bool) {
	if it.SROSchedule == nil {
		return SROSchedule{}, false
	}
	for _, s := range it.SROScheduleOptions {
		if s.ID == *it.SROSchedule {
			return s, true
		}
	}
	return SROSchedule{}, false
}

// SelectedSROItem devuelve la opción del ítem SRO seleccionado, si existe.
func (it InvoiceItem) SelectedSROItem() (SROItem, bool) {
	if it.SROItem == nil {
		return SROItem{}, false
	}
	for _, s := range it.SROItemOptions {
		if s.ID == *it.SROItem {
			return s, true
		}
	}
	return SROItem{}, false
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
