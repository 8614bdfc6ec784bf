package catalog

import (
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
)

var _ lineitem.Lookup = (*Index)(nil)

// Index índice en memoria de los catálogos base (etiquetas del editor).
type Index struct {
	hs        map[string]string
	transType map[int]string
	HSCodes   []entity.HSCode
	Types     []entity.TransactionType
	Provinces []entity.Province
}

// NewIndex construye el índice a partir de los catálogos cargados.
func NewIndex(c *Catalogs) *Index {
	idx := &Index{
		hs:        make(map[string]string, len(c.HSCodes)),
		transType: make(map[int]string, len(c.TransactionTypes)),
		HSCodes:   c.HSCodes,
		Types:     c.TransactionTypes,
		Provinces: c.Provinces,
	}
	for _, h := range c.HSCodes {
		idx.hs[h.Code] = h.Description
	}
	for _, t := range c.TransactionTypes {
		idx.transType[t.ID] = t.Description
	}
	return idx
}

func (i *Index) HSDescription(code string) (string, bool) {
	d, ok := i.hs[code]
	return d, ok
}

func (i *Index) TransactionDescription(id int) (string, bool) {
	d, ok := i.transType[id]
	return d, ok
}

// FirstHSCode primer HS code del catálogo (vacío si no hay).
func (i *Index) FirstHSCode() entity.HSCode {
	if len(i.HSCodes) == 0 {
		return entity.HSCode{}
	}
	return i.HSCodes[0]
}

// FirstTransactionType primer tipo de transacción (vacío si no hay).
func (i *Index) FirstTransactionType() entity.TransactionType {
	if len(i.Types) == 0 {
		return entity.TransactionType{}
	}
	return i.Types[0]
}

// ProvinceCode código de la provincia por descripción.
func (i *Index) ProvinceCode(description string) int {
	return ProvinceCodeOf(i.Provinces, description)
}
