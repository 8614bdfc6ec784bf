package lineitem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// Field campo editable de una línea.
type Field string

const (
	FieldHSCode        Field = "hsCode"
	FieldDescription   Field = "description"
	FieldServiceTypeID Field = "serviceTypeId"
	FieldUOM           Field = "uom"
	FieldQuantity      Field = "quantity"
	FieldUnitPrice     Field = "unitPrice"
	FieldTaxRate       Field = "taxRate"
	FieldSROSchedule   Field = "sroSchedule"
	FieldSROItem       Field = "sroItem"
)

// Change edición de un campo tal como llega de la UI (valor en texto).
type Change struct {
	Field Field
	Value string
}

// FetchKind consulta remota que requiere una edición.
type FetchKind int

const (
	FetchUOM FetchKind = iota + 1
	FetchTaxRates
	FetchSROChain
	FetchSROItems
)

func (k FetchKind) String() string {
	switch k {
	case FetchUOM:
		return "uom"
	case FetchTaxRates:
		return "tax_rates"
	case FetchSROChain:
		return "sro_chain"
	case FetchSROItems:
		return "sro_items"
	default:
		return "unknown"
	}
}

// Fetch consulta diferida (con debounce) resultante de una edición.
type Fetch struct {
	Kind          FetchKind
	HSCode        string
	TransTypeID   int
	RateID        int
	SROScheduleID int
}

// Step resultado de planificar una edición.
type Step struct {
	// Immediate se aplica en el acto, antes de cualquier consulta remota.
	Immediate Patch
	// Fetch nil = la edición es puramente local.
	Fetch *Fetch
	// Cancel claves de campos aguas abajo cuya resolución pendiente queda obsoleta.
	Cancel []Field
}

// Lookup catálogos locales necesarios para etiquetas (descripción HS, tipo de transacción).
type Lookup interface {
	HSDescription(code string) (string, bool)
	TransactionDescription(id int) (string, bool)
}

// Env contexto del encabezado de la factura al momento de la edición.
type Env struct {
	Lookup     Lookup
	BuyerKnown bool
	DateKnown  bool
}

// Plan traduce la edición de un campo en un parche inmediato, la consulta remota de
// seguimiento y las resoluciones pendientes a cancelar.
func Plan(item entity.InvoiceItem, ch Change, env Env) (Step, error) {
	raw := strings.TrimSpace(ch.Value)
	switch ch.Field {
	case FieldQuantity, FieldUnitPrice:
		d, err := parseAmount(ch.Field, raw)
		if err != nil {
			return Step{}, err
		}
		if ch.Field == FieldQuantity {
			return Step{Immediate: Patch{Quantity: Some(d)}}, nil
		}
		return Step{Immediate: Patch{UnitPrice: Some(d)}}, nil

	case FieldDescription:
		return Step{Immediate: Patch{Description: Some(ch.Value)}}, nil

	case FieldUOM:
		return Step{Immediate: Patch{UOM: Some(raw)}}, nil

	case FieldHSCode:
		if raw == "" {
			return Step{}, fmt.Errorf("%w: hsCode vacío", domain.ErrInvalidInput)
		}
		p := Patch{HSCode: Some(raw)}
		if env.Lookup != nil {
			if desc, ok := env.Lookup.HSDescription(raw); ok && desc != "" {
				p.Description = Some(desc)
			}
		}
		return Step{Immediate: p, Fetch: &Fetch{Kind: FetchUOM, HSCode: raw}}, nil

	case FieldServiceTypeID:
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return Step{}, fmt.Errorf("%w: serviceTypeId %q", domain.ErrInvalidInput, ch.Value)
		}
		p := Patch{ServiceTypeID: Some(id)}
		if env.Lookup != nil {
			if desc, ok := env.Lookup.TransactionDescription(id); ok {
				p.SaleType = Some(desc)
			}
		}
		p = p.Then(resetTaxChain())
		st := Step{Immediate: p, Cancel: []Field{FieldTaxRate, FieldSROSchedule}}
		if env.BuyerKnown && env.DateKnown {
			st.Fetch = &Fetch{Kind: FetchTaxRates, TransTypeID: id}
		}
		return st, nil

	case FieldTaxRate:
		rate, err := parseAmount(ch.Field, raw)
		if err != nil {
			return Step{}, err
		}
		rateID := rateIDFor(item.TaxRateOptions, rate)
		p := Patch{TaxRate: Some(rate), RateID: Some(rateID)}.Then(resetSRO())
		st := Step{Immediate: p, Cancel: []Field{FieldSROSchedule}}
		if rateID != nil && env.BuyerKnown && env.DateKnown {
			st.Fetch = &Fetch{Kind: FetchSROChain, RateID: *rateID}
		}
		return st, nil

	case FieldSROSchedule:
		if raw == "" {
			return Step{Immediate: Patch{
				SROSchedule:    Clear[*int](),
				SROItem:        Clear[*int](),
				SROItemOptions: Clear[[]entity.SROItem](),
			}}, nil
		}
		id, err := strconv.Atoi(raw)
		if err != nil || !hasSchedule(item.SROScheduleOptions, id) {
			return Step{}, fmt.Errorf("%w: anexo SRO %q no está en las opciones", domain.ErrInvalidInput, ch.Value)
		}
		p := Patch{
			SROSchedule:    Some(IntRef(id)),
			SROItem:        Clear[*int](),
			SROItemOptions: Clear[[]entity.SROItem](),
		}
		st := Step{Immediate: p}
		if env.DateKnown {
			st.Fetch = &Fetch{Kind: FetchSROItems, SROScheduleID: id}
		}
		return st, nil

	case FieldSROItem:
		if raw == "" {
			return Step{Immediate: Patch{SROItem: Clear[*int]()}}, nil
		}
		id, err := strconv.Atoi(raw)
		if err != nil || !hasSROItem(item.SROItemOptions, id) {
			return Step{}, fmt.Errorf("%w: ítem SRO %q no está en las opciones", domain.ErrInvalidInput, ch.Value)
		}
		return Step{Immediate: Patch{SROItem: Some(IntRef(id))}}, nil
	}
	return Step{}, fmt.Errorf("%w: campo desconocido %q", domain.ErrInvalidInput, ch.Field)
}

func parseAmount(f Field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q no es numérico", domain.ErrInvalidInput, f, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, f)
	}
	return d, nil
}
