// Package fbr contiene las reglas de dominio de la facturación digital FBR (Pakistán):
// cálculo de totales, construcción del payload y validaciones previas al envío.
package fbr

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agregados de la factura.
type Totals struct {
	Gross decimal.Decimal `json:"grossAmount"`
	Tax   decimal.Decimal `json:"salesTax"`
	Total decimal.Decimal `json:"totalAmount"`
}

// LineValue valor sin impuesto: cantidad × precio.
func LineValue(it entity.InvoiceItem) decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

// LineTax impuesto de la línea: cantidad × precio × tarifa / 100.
func LineTax(it entity.InvoiceItem) decimal.Decimal {
	return LineValue(it).Mul(it.TaxRate).Div(hundred)
}

// LineTotal valor + impuesto.
func LineTotal(it entity.InvoiceItem) decimal.Decimal {
	return LineValue(it).Add(LineTax(it))
}

// Compute suma las líneas. Sin redondeo intermedio; redondear solo para presentación.
func Compute(items []entity.InvoiceItem) Totals {
	t := Totals{Gross: decimal.Zero, Tax: decimal.Zero}
	for _, it := range items {
		t.Gross = t.Gross.Add(LineValue(it))
		t.Tax = t.Tax.Add(LineTax(it))
	}
	t.Total = t.Gross.Add(t.Tax)
	return t
}

// ApplyTotals recalcula y asigna los montos de la factura.
func ApplyTotals(inv *entity.Invoice) Totals {
	t := Compute(inv.Items)
	inv.GrossAmount = t.Gross
	inv.SalesTax = t.Tax
	inv.TotalAmount = t.Total
	return t
}
