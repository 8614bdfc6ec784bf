package dto

// HeaderRequest body para PATCH /api/editor/sessions/:id. Los campos ausentes no se tocan.
type HeaderRequest struct {
	InvoiceType *string `json:"invoiceType" validate:"omitempty,oneof='Sale Invoice' 'Debit Note'"`
	InvoiceDate *string `json:"invoiceDate" validate:"omitempty"`
	SellerID    *string `json:"sellerId"`
	BuyerID     *string `json:"buyerId"`
	ScenarioID  *string `json:"scenarioId" validate:"omitempty,max=10"`
	Currency    *string `json:"currency" validate:"omitempty,len=3"`
	Environment *string `json:"environment" validate:"omitempty,oneof=sandbox production"`
}

// ItemEditRequest body para PATCH /api/editor/sessions/:id/items/:itemId.
type ItemEditRequest struct {
	Field string `json:"field" validate:"required,oneof=hsCode description serviceTypeId uom quantity unitPrice taxRate sroSchedule sroItem"`
	Value string `json:"value"`
}

// SubmitRequest body para POST /api/invoices/:id/submit.
// Environment vacío = ambiente por defecto de las preferencias.
type SubmitRequest struct {
	Environment string `json:"environment" validate:"omitempty,oneof=sandbox production"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=draft submitted failed"`
	SellerID string `query:"sellerId"`
	BuyerID  string `query:"buyerId"`
}
