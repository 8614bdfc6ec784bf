// Package editor mantiene los borradores de factura en edición: sesiones en memoria
// cuyas líneas resuelven sus campos dependientes contra el gateway FBR.
package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Config parámetros del editor.
type Config struct {
	Debounce    time.Duration
	AnnexureID  int
	IdleTTL     time.Duration // inactividad tras la que la sesión se cierra sola
	MaxSessions int           // al superarse se cierra la menos usada
}

const (
	defaultIdleTTL     = 2 * time.Hour
	defaultMaxSessions = 1000
)

// Deps dependencias compartidas por todas las sesiones.
type Deps struct {
	Catalogs *catalog.CatalogUseCase
	Resolver *Resolver
	Sellers  repository.SellerRepository
	Buyers   repository.BuyerRepository
	Invoices repository.InvoiceRepository
	Settings repository.SettingsRepository
	Logs     repository.LogRepository
}

// Editor registro de sesiones abiertas. Cada acceso renueva la inactividad de la
// sesión; toda sesión que sale del registro queda cerrada.
type Editor struct {
	deps *Deps
	cfg  Config
	log  zerolog.Logger

	sessions *expirable.LRU[string, *Session]
}

// NewEditor construye el registro.
func NewEditor(deps Deps, cfg Config, log zerolog.Logger) *Editor {
	if cfg.AnnexureID == 0 {
		cfg.AnnexureID = pkgfbr.DefaultAnnexureID
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	e := &Editor{deps: &deps, cfg: cfg, log: log}
	e.sessions = expirable.NewLRU[string, *Session](cfg.MaxSessions, e.evicted, cfg.IdleTTL)
	return e
}

// Open abre un borrador nuevo con las preferencias vigentes (ambiente, moneda) y fecha de hoy.
func (e *Editor) Open(ctx context.Context) (*Session, error) {
	settings, err := e.settings(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	inv := entity.Invoice{
		ID:       uuid.New().String(),
		Type:     pkgfbr.InvoiceTypeSale,
		Currency: settings.DefaultCurrency,
		Status:   entity.InvoiceStatusDraft,
		Items:    []entity.InvoiceItem{},
	}
	s := newSession(inv, settings.DefaultEnvironment, e.deps, e.cfg, e.log)
	today := pkgfbr.FormatISODate(now)
	env := settings.DefaultEnvironment
	if _, err := s.SetHeader(ctx, HeaderInput{Date: &today, Environment: &env}); err != nil {
		s.Close()
		return nil, err
	}
	e.register(s)
	return s, nil
}

// OpenDraft abre una factura guardada. Las facturas enviadas no se pueden editar.
func (e *Editor) OpenDraft(ctx context.Context, invoiceID string) (*Session, error) {
	inv, err := e.deps.Invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, invoiceID)
	}
	if inv.IsSubmitted() {
		return nil, fmt.Errorf("%w: la factura %s ya fue enviada", domain.ErrConflict, inv.RefNo)
	}
	if s := e.findByInvoice(inv.ID); s != nil {
		return s, nil
	}
	settings, err := e.settings(ctx)
	if err != nil {
		return nil, err
	}

	base := *inv
	base.SellerID, base.BuyerID = "", ""
	if base.Items == nil {
		base.Items = []entity.InvoiceItem{}
	}
	s := newSession(base, settings.DefaultEnvironment, e.deps, e.cfg, e.log)
	env := settings.DefaultEnvironment
	in := HeaderInput{Environment: &env, Date: &inv.Date}
	if inv.Date == "" {
		in.Date = nil
	}
	if inv.SellerID != "" {
		in.SellerID = &inv.SellerID
	}
	if inv.BuyerID != "" {
		in.BuyerID = &inv.BuyerID
	}
	if _, err := s.SetHeader(ctx, in); err != nil {
		s.Close()
		return nil, err
	}
	e.register(s)
	return s, nil
}

// Get sesión abierta por id; renueva su inactividad.
func (e *Editor) Get(id string) (*Session, error) {
	s, ok := e.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: sesión %s", domain.ErrNotFound, id)
	}
	e.sessions.Add(id, s)
	return s, nil
}

// Discard cierra la sesión y la elimina del registro.
func (e *Editor) Discard(id string) error {
	if !e.sessions.Remove(id) {
		return fmt.Errorf("%w: sesión %s", domain.ErrNotFound, id)
	}
	return nil
}

// Len número de sesiones registradas.
func (e *Editor) Len() int { return e.sessions.Len() }

// Close cierra todas las sesiones (apagado del servidor).
func (e *Editor) Close() { e.sessions.Purge() }

func (e *Editor) register(s *Session) {
	e.sessions.Add(s.ID(), s)
	e.log.Debug().Str("session", s.ID()).Msg("sesión de edición abierta")
}

// evicted cierra la sesión que sale del registro por descarte, inactividad o capacidad.
func (e *Editor) evicted(id string, s *Session) {
	s.Close()
	e.log.Debug().Str("session", id).Msg("sesión de edición cerrada")
}

func (e *Editor) findByInvoice(invoiceID string) *Session {
	// Values deja huecos nil en lugar de las entradas vencidas.
	for _, s := range e.sessions.Values() {
		if s != nil && s.Draft().ID == invoiceID {
			e.sessions.Add(s.ID(), s)
			return s
		}
	}
	return nil
}

func (e *Editor) settings(ctx context.Context) (entity.AppSettings, error) {
	def := entity.DefaultSettings()
	if e.deps.Settings == nil {
		return def, nil
	}
	st, err := e.deps.Settings.Get(ctx)
	if err != nil {
		return def, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if st == nil {
		return def, nil
	}
	return *st, nil
}
