package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
)

var _ ports.SubmissionLocker = (*Locker)(nil)

// Locker lock de envío dentro del proceso (sin Redis). Cada clave tomada guarda un
// canal que se cierra al liberarla.
type Locker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

// NewLocker crea un locker vacío.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]chan struct{})}
}

// Acquire toma la clave sin esperar; domain.ErrConflict si ya está tomada.
func (l *Locker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, fmt.Errorf("%w: envío en curso para %s", domain.ErrConflict, key)
	}
	return l.takeLocked(key), nil
}

// AcquireWait espera a que la clave quede libre o a que ctx termine.
func (l *Locker) AcquireWait(ctx context.Context, key string) (func(), error) {
	for {
		l.mu.Lock()
		done, busy := l.held[key]
		if !busy {
			release := l.takeLocked(key)
			l.mu.Unlock()
			return release, nil
		}
		l.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: espera del lock %s: %w", domain.ErrConflict, key, ctx.Err())
		}
	}
}

func (l *Locker) takeLocked(key string) func() {
	done := make(chan struct{})
	l.held[key] = done
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
			close(done)
		})
	}
}
