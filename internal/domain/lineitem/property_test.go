package lineitem_test

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
)

// genItem construye una línea consistente a partir de tamaños de listas y selecciones.
func genItem(nRates, nSched, nItems, pick int) entity.InvoiceItem {
	it := lineitem.New("p", entity.HSCode{}, entity.TransactionType{}, 0)
	for i := 0; i < nRates; i++ {
		it.TaxRateOptions = append(it.TaxRateOptions, entity.TaxRateOption{ID: 100 + i, Value: decimal.NewFromInt(int64(i * 5))})
	}
	for i := 0; i < nSched; i++ {
		it.SROScheduleOptions = append(it.SROScheduleOptions, entity.SROSchedule{ID: 200 + i})
	}
	for i := 0; i < nItems; i++ {
		it.SROItemOptions = append(it.SROItemOptions, entity.SROItem{ID: 300 + i})
	}
	if nRates > 0 {
		it.RateID = lineitem.IntRef(100 + pick%nRates)
		it.TaxRate = it.TaxRateOptions[pick%nRates].Value
	}
	if nSched > 0 {
		it.SROSchedule = lineitem.IntRef(200 + pick%nSched)
	}
	if nItems > 0 {
		it.SROItem = lineitem.IntRef(300 + pick%nItems)
	}
	return it
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func TestPropiedades_CadenaDependiente(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("hsCode nunca altera tarifa ni SRO", prop.ForAll(
		func(nRates, nSched, nItems, pick int, code string, uoms []string) bool {
			it := genItem(nRates, nSched, nItems, pick)
			st, err := lineitem.Plan(it, lineitem.Change{Field: lineitem.FieldHSCode, Value: "H" + code}, readyEnv)
			if err != nil {
				return false
			}
			out := lineitem.Apply(it, st.Immediate)
			out = lineitem.Apply(out, lineitem.UOMResolved(uoms))
			out = lineitem.Apply(out, lineitem.UOMFailed(out))
			return out.TaxRate.Equal(it.TaxRate) &&
				sameInt(out.RateID, it.RateID) &&
				sameInt(out.SROSchedule, it.SROSchedule) &&
				sameInt(out.SROItem, it.SROItem)
		},
		gen.IntRange(0, 4), gen.IntRange(0, 4), gen.IntRange(0, 4), gen.IntRange(0, 20),
		gen.NumString(), gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("serviceTypeId siempre reinicia tarifa y SRO", prop.ForAll(
		func(nRates, nSched, nItems, pick, id int, buyer, date bool) bool {
			it := genItem(nRates, nSched, nItems, pick)
			env := lineitem.Env{Lookup: stubLookup{}, BuyerKnown: buyer, DateKnown: date}
			st, err := lineitem.Plan(it, lineitem.Change{Field: lineitem.FieldServiceTypeID, Value: strconv.Itoa(id)}, env)
			if err != nil {
				return false
			}
			out := lineitem.Apply(it, st.Immediate)
			return out.TaxRate.IsZero() && out.RateID == nil && out.SROSchedule == nil && out.SROItem == nil &&
				len(out.TaxRateOptions) == 0 && len(out.SROScheduleOptions) == 0 && len(out.SROItemOptions) == 0
		},
		gen.IntRange(0, 4), gen.IntRange(0, 4), gen.IntRange(0, 4), gen.IntRange(0, 20),
		gen.IntRange(1, 200), gen.Bool(), gen.Bool(),
	))

	properties.Property("sroItem siempre pertenece a sus opciones", prop.ForAll(
		func(nRates, nSched, nItems, pick int, edits []int) bool {
			it := genItem(nRates, nSched, nItems, pick)
			fields := []lineitem.Field{
				lineitem.FieldSROItem, lineitem.FieldSROSchedule, lineitem.FieldTaxRate,
				lineitem.FieldServiceTypeID, lineitem.FieldHSCode, lineitem.FieldQuantity,
			}
			for i, e := range edits {
				f := fields[e%len(fields)]
				val := strconv.Itoa(300 + e%5)
				switch f {
				case lineitem.FieldSROSchedule:
					val = strconv.Itoa(200 + e%5)
				case lineitem.FieldTaxRate:
					val = strconv.Itoa((e % 5) * 5)
				case lineitem.FieldServiceTypeID, lineitem.FieldQuantity:
					val = strconv.Itoa(e%50 + 1)
				}
				st, err := lineitem.Plan(it, lineitem.Change{Field: f, Value: val}, readyEnv)
				if err == nil {
					it = lineitem.Apply(it, st.Immediate)
				}
				if i%3 == 0 {
					it = lineitem.Apply(it, lineitem.SROItemsResolved([]entity.SROItem{{ID: 300 + e%5}}))
				}
				if lineitem.Check(it) != nil {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 4), gen.IntRange(0, 4), gen.IntRange(0, 4), gen.IntRange(0, 20),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
