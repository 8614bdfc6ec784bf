package kvstore

import "context"

// BulkClearer backends capaces de vaciar varias colecciones de forma atómica.
type BulkClearer interface {
	ClearAll(ctx context.Context, collections ...string) error
}

// Store agrupa los repositorios tipados sobre un mismo backend.
type Store struct {
	Backend  Backend
	Sellers  *SellerRepo
	Buyers   *BuyerRepo
	Invoices *InvoiceRepo
	Settings *SettingsRepo
	Logs     *LogRepo
}

// NewStore construye todos los repositorios sobre b.
func NewStore(b Backend) *Store {
	return &Store{
		Backend:  b,
		Sellers:  NewSellerRepository(b),
		Buyers:   NewBuyerRepository(b),
		Invoices: NewInvoiceRepository(b),
		Settings: NewSettingsRepository(b),
		Logs:     NewLogRepository(b),
	}
}

// ClearData borra vendedores, compradores, facturas y logs. Las preferencias se conservan.
func (s *Store) ClearData(ctx context.Context) error {
	cols := []string{CollectionSellers, CollectionBuyers, CollectionInvoices, CollectionLogs}
	if bc, ok := s.Backend.(BulkClearer); ok {
		return bc.ClearAll(ctx, cols...)
	}
	for _, c := range cols {
		if err := s.Backend.Clear(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Close libera el backend.
func (s *Store) Close() error { return s.Backend.Close() }
