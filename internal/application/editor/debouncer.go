package editor

import (
	"context"
	"sync"
	"time"
)

// Debouncer agenda trabajo diferido por clave. Una nueva programación de la misma
// clave detiene el temporizador pendiente y cancela el contexto de la ejecución en curso;
// solo la última generación puede confirmar su resultado.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pendingCall
	seq     uint64
	closed  bool
	wg      sync.WaitGroup
}

type pendingCall struct {
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewDebouncer crea un debouncer con retardo fijo.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay, pending: make(map[string]*pendingCall)}
}

// Schedule programa fn para dentro del retardo. fn recibe un contexto que se cancela
// si la clave se reprograma o se cancela, y current, que indica si la ejecución sigue vigente.
func (d *Debouncer) Schedule(key string, fn func(ctx context.Context, current func() bool)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked(key)

	d.seq++
	gen := d.seq
	ctx, cancel := context.WithCancel(context.Background())
	p := &pendingCall{gen: gen, cancel: cancel}
	d.pending[key] = p
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		defer d.finish(key, gen)
		if ctx.Err() != nil {
			return
		}
		fn(ctx, func() bool { return ctx.Err() == nil && d.isCurrent(key, gen) })
	})
}

// Cancel descarta lo pendiente o en curso para las claves dadas.
func (d *Debouncer) Cancel(keys ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range keys {
		d.stopLocked(k)
	}
}

// Pending número de claves con trabajo programado o en curso.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Close cancela todo y espera a que terminen las ejecuciones en curso.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	for k := range d.pending {
		d.stopLocked(k)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Debouncer) stopLocked(key string) {
	p, ok := d.pending[key]
	if !ok {
		return
	}
	delete(d.pending, key)
	p.cancel()
	if p.timer != nil && p.timer.Stop() {
		d.wg.Done()
	}
}

func (d *Debouncer) isCurrent(key string, gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[key]
	return ok && p.gen == gen
}

func (d *Debouncer) finish(key string, gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok && p.gen == gen {
		delete(d.pending, key)
		p.cancel()
	}
}

// Key clave de debounce de un campo de una línea.
func Key(itemID string, field string) string {
	return itemID + ":" + field
}
