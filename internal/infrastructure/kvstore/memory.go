package kvstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
)

var _ Backend = (*MemoryBackend)(nil)

type memRecord struct {
	seq      int64
	indexKey string
	data     []byte
}

// MemoryBackend backend en memoria (tests y STORE_DRIVER=memory). Mismas reglas que los persistentes.
type MemoryBackend struct {
	mu   sync.RWMutex
	seq  int64
	cols map[string]map[string]memRecord
}

// NewMemoryBackend crea un backend vacío.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{cols: make(map[string]map[string]memRecord)}
}

func (m *MemoryBackend) Get(_ context.Context, collection, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.cols[collection][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return append([]byte(nil), rec.data...), nil
}

func (m *MemoryBackend) GetAll(_ context.Context, collection string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]memRecord, 0, len(m.cols[collection]))
	for _, rec := range m.cols[collection] {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := make([][]byte, 0, len(recs))
	for _, rec := range recs {
		out = append(out, append([]byte(nil), rec.data...))
	}
	return out, nil
}

func (m *MemoryBackend) Put(_ context.Context, collection, id, indexKey string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	col, ok := m.cols[collection]
	if !ok {
		col = make(map[string]memRecord)
		m.cols[collection] = col
	}
	if indexKey != "" {
		for otherID, rec := range col {
			if otherID != id && rec.indexKey == indexKey {
				return fmt.Errorf("%w: %s con índice %q ya existe", domain.ErrDuplicate, collection, indexKey)
			}
		}
	}
	rec, exists := col[id]
	if !exists {
		m.seq++
		rec.seq = m.seq
	}
	rec.indexKey = indexKey
	rec.data = append([]byte(nil), data...)
	col[id] = rec
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cols[collection], id)
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cols, collection)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
