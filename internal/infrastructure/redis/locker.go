package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
)

var _ ports.SubmissionLocker = (*Locker)(nil)

// lockTTL cubre validate + submit con el timeout por defecto del gateway.
const lockTTL = 90 * time.Second

// waitBackoff intervalo entre intentos de AcquireWait.
const waitBackoff = 100 * time.Millisecond

// Locker lock distribuido por factura (redislock).
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLocker construye el locker sobre el cliente Redis.
func NewLocker(rdb goredis.UniversalClient, ttl time.Duration, log zerolog.Logger) *Locker {
	if ttl <= 0 {
		ttl = lockTTL
	}
	return &Locker{client: redislock.New(rdb), ttl: ttl, log: log}
}

// Acquire intenta tomar "lock:<key>" sin reintentos.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	return l.obtain(ctx, key, nil)
}

// AcquireWait reintenta con backoff lineal hasta el deadline de ctx; sin deadline,
// redislock limita la espera al TTL del lock.
func (l *Locker) AcquireWait(ctx context.Context, key string) (func(), error) {
	return l.obtain(ctx, key, &redislock.Options{RetryStrategy: redislock.LinearBackoff(waitBackoff)})
}

func (l *Locker) obtain(ctx context.Context, key string, opt *redislock.Options) (func(), error) {
	lock, err := l.client.Obtain(ctx, "lock:"+key, l.ttl, opt)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: envío en curso para %s", domain.ErrConflict, key)
	}
	if err != nil {
		return nil, fmt.Errorf("redis: obtener lock %s: %w", key, err)
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock de envío")
		}
	}, nil
}
