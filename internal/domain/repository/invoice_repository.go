package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// InvoiceFilter filtros opcionales del listado (vacío = sin filtro).
type InvoiceFilter struct {
	Status   string
	SellerID string
	BuyerID  string
}

// InvoiceRepository puerto de persistencia para facturas y notas débito.
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *entity.Invoice) error
	// GetByID retorna nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List ordena por fecha de creación descendente.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
