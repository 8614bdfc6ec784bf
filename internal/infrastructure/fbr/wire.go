package fbr

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// Estructuras tal como las publica el gateway (respetando su capitalización).

type hsCodeWire struct {
	HSCode      string `json:"hS_CODE"`
	Description string `json:"description"`
}

type transTypeWire struct {
	ID          int    `json:"transactioN_TYPE_ID"`
	Description string `json:"transactioN_DESC"`
}

type provinceWire struct {
	Code        int    `json:"stateProvinceCode"`
	Description string `json:"stateProvinceDesc"`
}

type uomWire struct {
	ID          int    `json:"uoM_ID"`
	Description string `json:"description"`
}

type docTypeWire struct {
	ID          int    `json:"docTypeId"`
	Description string `json:"docDescription"`
}

type rateWire struct {
	ID          int             `json:"ratE_ID"`
	Description string          `json:"ratE_DESC"`
	Value       decimal.Decimal `json:"ratE_VALUE"`
}

type sroScheduleWire struct {
	ID          int    `json:"srO_ID"`
	Description string `json:"srO_DESC"`
}

type sroItemWire struct {
	ID          int    `json:"srO_ITEM_ID"`
	Description string `json:"srO_ITEM_DESC"`
}

type statlRequest struct {
	RegNo string `json:"regno"`
	Date  string `json:"date"`
}

type statlResponse struct {
	Status     string `json:"status"`
	StatusCode string `json:"status code"`
}

type regTypeRequest struct {
	RegistrationNo string `json:"Registration_No"`
}

type regTypeResponse struct {
	RegistrationType string `json:"REGISTRATION_TYPE"`
	StatusCode       string `json:"statuscode"`
}

func (w hsCodeWire) toEntity() entity.HSCode {
	return entity.HSCode{Code: w.HSCode, Description: w.Description}
}

func (w transTypeWire) toEntity() entity.TransactionType {
	return entity.TransactionType{ID: w.ID, Description: w.Description}
}

func (w provinceWire) toEntity() entity.Province {
	return entity.Province{Code: w.Code, Description: w.Description}
}

func (w uomWire) toEntity() entity.UOM {
	return entity.UOM{ID: w.ID, Description: w.Description}
}

func (w docTypeWire) toEntity() entity.DocumentType {
	return entity.DocumentType{ID: w.ID, Description: w.Description}
}

func (w rateWire) toEntity() entity.TaxRateOption {
	return entity.TaxRateOption{ID: w.ID, Description: w.Description, Value: w.Value}
}

func (w sroScheduleWire) toEntity() entity.SROSchedule {
	return entity.SROSchedule{ID: w.ID, Description: w.Description}
}

func (w sroItemWire) toEntity() entity.SROItem {
	return entity.SROItem{ID: w.ID, Description: w.Description}
}

func mapSlice[W any, E any](in []W, f func(W) E) []E {
	out := make([]E, 0, len(in))
	for _, w := range in {
		out = append(out, f(w))
	}
	return out
}
