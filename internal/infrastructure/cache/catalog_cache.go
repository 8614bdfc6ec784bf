// Package cache cache de catálogos en memoria del proceso (LRU con expiración).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
)

var _ ports.CatalogCache = (*CatalogCache)(nil)

// CatalogCache guarda los valores serializados; el TTL es global (el de Set se ignora).
type CatalogCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewCatalogCache crea una cache de hasta size entradas con expiración ttl.
func NewCatalogCache(size int, ttl time.Duration) *CatalogCache {
	if size <= 0 {
		size = 256
	}
	return &CatalogCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *CatalogCache) Get(_ context.Context, key string, dst any) (bool, error) {
	data, ok := c.lru.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache: decodificar %s: %w", key, err)
	}
	return true, nil
}

func (c *CatalogCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: serializar %s: %w", key, err)
	}
	c.lru.Add(key, data)
	return nil
}

// Purge vacía la cache.
func (c *CatalogCache) Purge() { c.lru.Purge() }
