package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
)

var _ ports.CatalogCache = (*CatalogCache)(nil)

// CatalogCache cache de catálogos compartida entre instancias.
type CatalogCache struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewCatalogCache construye la cache; las claves se guardan como "<prefix>catalog:<key>".
func NewCatalogCache(rdb goredis.UniversalClient, prefix string) *CatalogCache {
	return &CatalogCache{rdb: rdb, prefix: prefix}
}

func (c *CatalogCache) key(k string) string { return c.prefix + "catalog:" + k }

func (c *CatalogCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis: get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("redis: decodificar %s: %w", key, err)
	}
	return true, nil
}

func (c *CatalogCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: serializar %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}
