package billing

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// InvoicePDFGenerator genera la representación imprimible de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, seller *entity.Seller, buyer *entity.Buyer) ([]byte, error)
}
