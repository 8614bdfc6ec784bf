package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// PDFUseCase genera la representación imprimible (PDF) de una factura.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	sellerRepo  repository.SellerRepository
	buyerRepo   repository.BuyerRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	sellerRepo repository.SellerRepository,
	buyerRepo repository.BuyerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		sellerRepo:  sellerRepo,
		buyerRepo:   buyerRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF recupera la factura con sus partes y genera el PDF.
// Los borradores también se pueden imprimir; el QR solo aparece si la factura fue enviada.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura, el vendedor o el comprador no existen.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}

	seller, err := uc.sellerRepo.GetByID(ctx, inv.SellerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener vendedor: %w", err)
	}
	if seller == nil {
		return nil, "", fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, inv.SellerID)
	}
	buyer, err := uc.buyerRepo.GetByID(ctx, inv.BuyerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener comprador: %w", err)
	}
	if buyer == nil {
		return nil, "", fmt.Errorf("%w: comprador %s", domain.ErrNotFound, inv.BuyerID)
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv, seller, buyer)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, pdfFilename(inv), nil
}

func pdfFilename(inv *entity.Invoice) string {
	name := inv.RefNo
	if name == "" {
		name = inv.ID
	}
	return "invoice_" + strings.ReplaceAll(name, "/", "-") + ".pdf"
}
