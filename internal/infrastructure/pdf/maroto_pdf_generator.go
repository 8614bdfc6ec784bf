// Package pdf genera la representación imprimible de una factura FBR.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Vendedor + NTN      │  Referencia / N° FBR / Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENDEDOR: Dirección / Provincia / Actividad                 │
//	│  COMPRADOR: Nombre + NTN + Registro + Provincia              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | HS | Descripción | Cant | UoM | P.Unit | % | Total│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Valor sin impuesto / Sales Tax / TOTAL             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del número FBR (solo enviadas)                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
)

var _ billing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 1, Green: 87, Blue: 56}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	seller *entity.Seller,
	buyer *entity.Buyer,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(invoice.Type+" "+invoice.RefNo, true).
		WithAuthor(seller.BusinessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(seller))
	m.AddRows(buyerRow(buyer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(invoice.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(fbr.Compute(invoice.Items), invoice.Currency))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: vendedor + NTN (izq) y referencia, número FBR y fecha (der).
func headerRow(invoice *entity.Invoice, seller *entity.Seller) core.Row {
	fbrNumber := nonEmpty(invoice.FBRInvoiceNumber, "BORRADOR")
	return row.New(22).Add(
		col.New(7).Add(
			text.New(seller.BusinessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NTN/CNIC: "+seller.NTN, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(invoice.Type), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(invoice.RefNo, "—"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("FBR: "+fbrNumber, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Fecha: "+invoice.Date, props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

func sellerRow(seller *entity.Seller) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VENDEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Provincia: %s   |   Actividad: %s",
				nonEmpty(seller.Address, "—"),
				nonEmpty(seller.Province, "—"),
				nonEmpty(seller.BusinessActivity, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func buyerRow(buyer *entity.Buyer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(buyer.BusinessName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NTN/CNIC: %s   |   Registro: %s   |   Provincia: %s   |   %s",
				buyer.NTN,
				nonEmpty(buyer.RegistrationType, "—"),
				nonEmpty(buyer.Province, "—"),
				nonEmpty(buyer.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("HS Code", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("UoM", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Tarifa", 1, align.Center),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableItemRows: una fila por línea, con la SRO aplicada si existe.
func tableItemRows(items []entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := it.Description
		if s, ok := it.SelectedSROSchedule(); ok {
			desc += " (" + s.Description + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.HSCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(desc, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(1).Add(text.New(it.UOM, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.TaxRate.StringFixed(2)+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(fbr.LineTotal(it)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(t fbr.Totals, currency string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: right, Top: 12,
		})
	}
	return row.New(20).Add(
		col.New(5),
		col.New(3).Add(
			label("Valor sin impuesto:"),
			text.New("Sales Tax:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			grand("TOTAL:", 2),
		),
		col.New(4).Add(
			value(currency+" "+formatMoney(t.Gross)),
			text.New(currency+" "+formatMoney(t.Tax), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 6}),
			grand(currency+" "+formatMoney(t.Total), 1),
		),
	)
}

// footerRows: QR con el número FBR si la factura fue aceptada.
func footerRows(invoice *entity.Invoice) []core.Row {
	if !invoice.IsSubmitted() || invoice.FBRInvoiceNumber == "" {
		return []core.Row{row.New(10).Add(col.New(12).Add(
			text.New("Documento no enviado a FBR", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			}),
		))}
	}
	return []core.Row{row.New(40).Add(
		col.New(3).Add(code.NewQr(invoice.FBRInvoiceNumber, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("FBR Digital Invoicing System", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary,
			}),
			text.New("N° FBR: "+invoice.FBRInvoiceNumber, props.Text{
				Size: 8, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con dos decimales y comas de miles: 1234567.5 → "1,234,567.50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
