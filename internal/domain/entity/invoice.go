package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de la factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSubmitted = "submitted" // aceptada por FBR; inmutable
	InvoiceStatusFailed    = "failed"
)

// Invoice cabecera + líneas de una factura o nota débito.
type Invoice struct {
	ID                 string          `json:"id"`
	RefNo              string          `json:"invoiceRefNo"`
	FBRInvoiceNumber   string          `json:"fbrInvoiceNumber,omitempty"` // asignado por el gateway
	Type               string          `json:"invoiceType"`                // "Sale Invoice" | "Debit Note"
	Date               string          `json:"invoiceDate"`                // YYYY-MM-DD
	SellerID           string          `json:"sellerId"`
	BuyerID            string          `json:"buyerId"`
	ScenarioID         string          `json:"scenarioId,omitempty"`
	Currency           string          `json:"currency"`
	Items              []InvoiceItem   `json:"items"`
	Status             string          `json:"status"`
	GrossAmount        decimal.Decimal `json:"grossAmount"`
	SalesTax           decimal.Decimal `json:"salesTax"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	SubmissionResponse json.RawMessage `json:"submissionResponse,omitempty"`
	ErrorDetails       string          `json:"errorDetails,omitempty"` // último rechazo/fallo
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	SubmittedAt        *time.Time      `json:"submittedAt,omitempty"`
}

// IsSubmitted indica si la factura ya fue aceptada por el gateway.
func (inv *Invoice) IsSubmitted() bool {
	return inv.Status == InvoiceStatusSubmitted
}
