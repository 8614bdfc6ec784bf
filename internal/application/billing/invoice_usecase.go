package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// InvoiceUseCase borradores y consulta de facturas.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo}
}

// SaveDraft crea o reemplaza el borrador con totales recalculados.
// Una factura ya enviada no se puede sobrescribir (domain.ErrConflict).
func (uc *InvoiceUseCase) SaveDraft(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error) {
	if inv == nil {
		return nil, fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	existing, err := uc.invoiceRepo.GetByID(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if existing != nil {
		if existing.IsSubmitted() {
			return nil, fmt.Errorf("%w: la factura %s ya fue enviada", domain.ErrConflict, existing.RefNo)
		}
		inv.CreatedAt = existing.CreatedAt
	} else {
		inv.CreatedAt = now
	}
	if inv.Type == "" {
		inv.Type = pkgfbr.InvoiceTypeSale
	}
	if !pkgfbr.ValidInvoiceType(inv.Type) {
		return nil, fmt.Errorf("%w: tipo de factura %q", domain.ErrInvalidInput, inv.Type)
	}
	if inv.Currency == "" {
		inv.Currency = pkgfbr.DefaultCurrency
	}
	if inv.Items == nil {
		inv.Items = []entity.InvoiceItem{}
	}
	inv.Status = entity.InvoiceStatusDraft
	inv.FBRInvoiceNumber = ""
	inv.SubmissionResponse = nil
	inv.SubmittedAt = nil
	inv.UpdatedAt = now
	fbr.ApplyTotals(inv)

	if err := uc.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, fmt.Errorf("%w: guardar borrador: %w", domain.ErrStore, err)
	}
	return inv, nil
}

// List facturas filtradas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	list, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return list, nil
}

// Get factura por id; domain.ErrNotFound si no existe.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return inv, nil
}

// Delete elimina un borrador. Las facturas enviadas son inmutables.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}
	if inv.IsSubmitted() {
		return fmt.Errorf("%w: la factura %s ya fue enviada y no se puede eliminar", domain.ErrConflict, inv.RefNo)
	}
	if err := uc.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return nil
}
