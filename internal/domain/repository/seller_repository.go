package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// SellerRepository puerto de persistencia para vendedores (NTN único).
type SellerRepository interface {
	// Save crea o reemplaza el vendedor. Retorna domain.ErrDuplicate si el NTN ya pertenece a otro.
	Save(ctx context.Context, seller *entity.Seller) error
	// GetByID retorna nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	List(ctx context.Context) ([]*entity.Seller, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
