package repository

import (
	"context"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// BuyerRepository puerto de persistencia para compradores (NTN único).
type BuyerRepository interface {
	Save(ctx context.Context, buyer *entity.Buyer) error
	// GetByID retorna nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Buyer, error)
	List(ctx context.Context) ([]*entity.Buyer, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
