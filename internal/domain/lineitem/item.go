package lineitem

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Valores por defecto de una línea nueva cuando los catálogos aún no están cargados.
const (
	DefaultHSCode          = "5904.9000"
	DefaultHSDescription   = "TEXTILE PRODUCTS"
	DefaultServiceTypeID   = 18
	DefaultServiceTypeDesc = "Services"
)

// New crea una línea con los valores iniciales del editor: cantidad 1, precio 100, tarifa 0.
// hs y tt pueden venir vacíos; en ese caso se usan los valores por defecto.
func New(id string, hs entity.HSCode, tt entity.TransactionType, annexureID int) entity.InvoiceItem {
	if hs.Code == "" {
		hs = entity.HSCode{Code: DefaultHSCode, Description: DefaultHSDescription}
	}
	if tt.ID == 0 {
		tt = entity.TransactionType{ID: DefaultServiceTypeID, Description: DefaultServiceTypeDesc}
	}
	if annexureID == 0 {
		annexureID = fbr.DefaultAnnexureID
	}
	return entity.InvoiceItem{
		ID:            id,
		HSCode:        hs.Code,
		Description:   hs.Description,
		ServiceTypeID: tt.ID,
		SaleType:      tt.Description,
		Quantity:      decimal.NewFromInt(1),
		UnitPrice:     decimal.NewFromInt(100),
		TaxRate:       decimal.Zero,
		AnnexureID:    annexureID,
	}
}

// Check verifica que las selecciones referencien entradas de sus listas de opciones.
func Check(item entity.InvoiceItem) error {
	if item.RateID != nil && !hasRateID(item.TaxRateOptions, *item.RateID) {
		return fmt.Errorf("%w: rateId %d no está en las opciones de tarifa", domain.ErrInvalidInput, *item.RateID)
	}
	if item.SROSchedule != nil && !hasSchedule(item.SROScheduleOptions, *item.SROSchedule) {
		return fmt.Errorf("%w: anexo SRO %d no está en las opciones", domain.ErrInvalidInput, *item.SROSchedule)
	}
	if item.SROItem != nil && !hasSROItem(item.SROItemOptions, *item.SROItem) {
		return fmt.Errorf("%w: ítem SRO %d no está en las opciones", domain.ErrInvalidInput, *item.SROItem)
	}
	return nil
}

func hasRateID(opts []entity.TaxRateOption, id int) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

func hasSchedule(opts []entity.SROSchedule, id int) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

func hasSROItem(opts []entity.SROItem, id int) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

// rateIDFor busca la tarifa por igualdad de valor.
func rateIDFor(opts []entity.TaxRateOption, value decimal.Decimal) *int {
	for _, o := range opts {
		if o.Value.Equal(value) {
			id := o.ID
			return &id
		}
	}
	return nil
}
