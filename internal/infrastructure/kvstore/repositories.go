package kvstore

import (
	"context"
	"sort"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

var (
	_ repository.SellerRepository   = (*SellerRepo)(nil)
	_ repository.BuyerRepository    = (*BuyerRepo)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
	_ repository.LogRepository      = (*LogRepo)(nil)
)

// settingsID clave única del singleton de preferencias.
const settingsID = "app"

// ── Sellers ───────────────────────────────────────────────────────────────────

// SellerRepo repositorio de vendedores; el NTN es índice único.
type SellerRepo struct{ b Backend }

// NewSellerRepository construye el repositorio sobre el backend.
func NewSellerRepository(b Backend) *SellerRepo { return &SellerRepo{b: b} }

func (r *SellerRepo) Save(ctx context.Context, s *entity.Seller) error {
	return put(ctx, r.b, CollectionSellers, s.ID, s.NTN, s)
}

func (r *SellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	return get[entity.Seller](ctx, r.b, CollectionSellers, id)
}

func (r *SellerRepo) List(ctx context.Context) ([]*entity.Seller, error) {
	return getAll[entity.Seller](ctx, r.b, CollectionSellers)
}

func (r *SellerRepo) Delete(ctx context.Context, id string) error {
	return r.b.Delete(ctx, CollectionSellers, id)
}

func (r *SellerRepo) Clear(ctx context.Context) error { return r.b.Clear(ctx, CollectionSellers) }

// ── Buyers ────────────────────────────────────────────────────────────────────

// BuyerRepo repositorio de compradores; el NTN es índice único.
type BuyerRepo struct{ b Backend }

// NewBuyerRepository construye el repositorio sobre el backend.
func NewBuyerRepository(b Backend) *BuyerRepo { return &BuyerRepo{b: b} }

func (r *BuyerRepo) Save(ctx context.Context, buyer *entity.Buyer) error {
	return put(ctx, r.b, CollectionBuyers, buyer.ID, buyer.NTN, buyer)
}

func (r *BuyerRepo) GetByID(ctx context.Context, id string) (*entity.Buyer, error) {
	return get[entity.Buyer](ctx, r.b, CollectionBuyers, id)
}

func (r *BuyerRepo) List(ctx context.Context) ([]*entity.Buyer, error) {
	return getAll[entity.Buyer](ctx, r.b, CollectionBuyers)
}

func (r *BuyerRepo) Delete(ctx context.Context, id string) error {
	return r.b.Delete(ctx, CollectionBuyers, id)
}

func (r *BuyerRepo) Clear(ctx context.Context) error { return r.b.Clear(ctx, CollectionBuyers) }

// ── Invoices ──────────────────────────────────────────────────────────────────

// InvoiceRepo repositorio de facturas. Los filtros se aplican en memoria: el volumen
// esperado es el de un solo emisor.
type InvoiceRepo struct{ b Backend }

// NewInvoiceRepository construye el repositorio sobre el backend.
func NewInvoiceRepository(b Backend) *InvoiceRepo { return &InvoiceRepo{b: b} }

func (r *InvoiceRepo) Save(ctx context.Context, inv *entity.Invoice) error {
	return put(ctx, r.b, CollectionInvoices, inv.ID, "", inv)
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return get[entity.Invoice](ctx, r.b, CollectionInvoices, id)
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	all, err := getAll[entity.Invoice](ctx, r.b, CollectionInvoices)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, inv := range all {
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.SellerID != "" && inv.SellerID != f.SellerID {
			continue
		}
		if f.BuyerID != "" && inv.BuyerID != f.BuyerID {
			continue
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	return r.b.Delete(ctx, CollectionInvoices, id)
}

func (r *InvoiceRepo) Clear(ctx context.Context) error { return r.b.Clear(ctx, CollectionInvoices) }

// ── Settings ──────────────────────────────────────────────────────────────────

// SettingsRepo singleton de preferencias.
type SettingsRepo struct{ b Backend }

// NewSettingsRepository construye el repositorio sobre el backend.
func NewSettingsRepository(b Backend) *SettingsRepo { return &SettingsRepo{b: b} }

func (r *SettingsRepo) Get(ctx context.Context) (*entity.AppSettings, error) {
	return get[entity.AppSettings](ctx, r.b, CollectionSettings, settingsID)
}

func (r *SettingsRepo) Save(ctx context.Context, s *entity.AppSettings) error {
	return put(ctx, r.b, CollectionSettings, settingsID, "", s)
}

// ── Logs ──────────────────────────────────────────────────────────────────────

// LogRepo registro de errores/actividad.
type LogRepo struct{ b Backend }

// NewLogRepository construye el repositorio sobre el backend.
func NewLogRepository(b Backend) *LogRepo { return &LogRepo{b: b} }

func (r *LogRepo) Append(ctx context.Context, e *entity.ErrorLog) error {
	return put(ctx, r.b, CollectionLogs, e.ID, "", e)
}

func (r *LogRepo) List(ctx context.Context, limit int) ([]*entity.ErrorLog, error) {
	all, err := getAll[entity.ErrorLog](ctx, r.b, CollectionLogs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Timestamp.After(all[j].Timestamp) })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *LogRepo) Clear(ctx context.Context) error { return r.b.Clear(ctx, CollectionLogs) }
