package entity

import "github.com/shopspring/decimal"

// Catálogos de referencia publicados por el gateway FBR.

// HSCode clasificación arancelaria (Harmonized System).
type HSCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// TransactionType tipo de transacción / servicio (transtypecode).
type TransactionType struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Province provincia con su código.
type Province struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}

// UOM unidad de medida.
type UOM struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// TaxRateOption tarifa aplicable a un tipo de transacción (SaleTypeToRate).
type TaxRateOption struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

// SROSchedule anexo de un Statutory Regulatory Order.
type SROSchedule struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// SROItem ítem dentro de un anexo SRO.
type SROItem struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// DocumentType tipo de documento (doctypecode).
type DocumentType struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}
