package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Notice aviso para la UI (toast) generado por una resolución fallida.
type Notice struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	ItemID  string    `json:"itemId,omitempty"`
	Field   string    `json:"field,omitempty"`
	Time    time.Time `json:"time"`
}

// HeaderInput actualización parcial del encabezado (nil = no tocar).
type HeaderInput struct {
	Type        *string
	Date        *string
	SellerID    *string
	BuyerID     *string
	ScenarioID  *string
	Currency    *string
	Environment *string
}

// View instantánea de la sesión con totales calculados.
type View struct {
	ID          string         `json:"id"`
	Environment string         `json:"environment"`
	Invoice     entity.Invoice `json:"invoice"`
	Pending     int            `json:"pending"`
}

// Session borrador en memoria de una factura. Las ediciones se aplican en el acto y
// las consultas dependientes se resuelven con debounce en segundo plano.
type Session struct {
	id   string
	deps *Deps
	cfg  Config
	log  zerolog.Logger

	debounce *Debouncer

	mu           sync.Mutex
	inv          entity.Invoice
	env          string
	seller       *entity.Seller
	buyer        *entity.Buyer
	date         time.Time
	provinceCode int
	index        *catalog.Index
	notices      []Notice
	closed       bool
}

func newSession(inv entity.Invoice, env string, deps *Deps, cfg Config, log zerolog.Logger) *Session {
	return &Session{
		id:           uuid.New().String(),
		deps:         deps,
		cfg:          cfg,
		log:          log,
		debounce:     NewDebouncer(cfg.Debounce),
		inv:          inv,
		env:          env,
		provinceCode: pkgfbr.DefaultProvinceCode,
		index:        catalog.NewIndex(&catalog.Catalogs{}),
	}
}

// ID identificador de la sesión.
func (s *Session) ID() string { return s.id }

// Environment ambiente al que apunta el borrador.
func (s *Session) Environment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env
}

// SetHeader actualiza el encabezado. Cambiar vendedor o comprador los relee del almacén;
// con comprador y fecha conocidos, las líneas sin tarifas programan su consulta.
func (s *Session) SetHeader(ctx context.Context, in HeaderInput) (*View, error) {
	s.mu.Lock()
	env := s.env
	seller := s.seller
	s.mu.Unlock()

	if in.Environment != nil {
		if !pkgfbr.ValidEnvironment(*in.Environment) {
			return nil, fmt.Errorf("%w: ambiente %q", domain.ErrInvalidInput, *in.Environment)
		}
		env = *in.Environment
	}
	if in.Type != nil && !pkgfbr.ValidInvoiceType(*in.Type) {
		return nil, fmt.Errorf("%w: tipo de factura %q", domain.ErrInvalidInput, *in.Type)
	}
	var date time.Time
	if in.Date != nil {
		d, err := pkgfbr.ParseInvoiceDate(*in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		date = d
	}

	reloadCatalogs := in.Environment != nil
	if in.SellerID != nil {
		seller = nil
		if *in.SellerID != "" {
			sel, err := s.deps.Sellers.GetByID(ctx, *in.SellerID)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
			}
			if sel == nil {
				return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, *in.SellerID)
			}
			seller = sel
		}
		reloadCatalogs = true
	}
	cred := entity.Credentials{Environment: env}
	if seller != nil {
		cred = seller.CredentialsFor(env)
	}

	var index *catalog.Index
	if reloadCatalogs {
		c, err := s.deps.Catalogs.Load(ctx, cred)
		if err != nil {
			return nil, err
		}
		for _, w := range c.Warnings {
			s.pushNotice(Notice{Level: entity.LogLevelWarning, Message: w})
		}
		index = catalog.NewIndex(c)
	}

	var buyer *entity.Buyer
	buyerSet := in.BuyerID != nil
	if buyerSet && *in.BuyerID != "" {
		b, err := s.deps.Buyers.GetByID(ctx, *in.BuyerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		if b == nil {
			return nil, fmt.Errorf("%w: comprador %s", domain.ErrNotFound, *in.BuyerID)
		}
		buyer = b
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: sesión cerrada", domain.ErrConflict)
	}
	s.env = env
	if index != nil {
		s.index = index
	}
	if in.SellerID != nil {
		s.seller = seller
		s.inv.SellerID = *in.SellerID
	}
	if buyerSet {
		s.buyer = buyer
		s.inv.BuyerID = *in.BuyerID
	}
	if s.buyer != nil {
		s.provinceCode = s.index.ProvinceCode(s.buyer.Province)
	}
	if in.Type != nil {
		s.inv.Type = *in.Type
	}
	if in.Date != nil {
		s.date = date
		s.inv.Date = pkgfbr.FormatISODate(date)
	}
	if in.ScenarioID != nil {
		s.inv.ScenarioID = strings.TrimSpace(*in.ScenarioID)
	}
	if in.Currency != nil && *in.Currency != "" {
		s.inv.Currency = *in.Currency
	}
	if s.headerReadyLocked() {
		for _, it := range s.inv.Items {
			if len(it.TaxRateOptions) == 0 {
				s.scheduleLocked(it.ID, lineitem.FieldServiceTypeID, lineitem.Fetch{Kind: lineitem.FetchTaxRates, TransTypeID: it.ServiceTypeID})
			}
		}
	}
	v := s.viewLocked()
	s.mu.Unlock()
	return v, nil
}

// AddItem agrega una línea con los valores por defecto y consulta su unidad en el acto.
func (s *Session) AddItem(ctx context.Context) (entity.InvoiceItem, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return entity.InvoiceItem{}, fmt.Errorf("%w: sesión cerrada", domain.ErrConflict)
	}
	item := lineitem.New(uuid.New().String(), s.index.FirstHSCode(), s.index.FirstTransactionType(), s.cfg.AnnexureID)
	s.inv.Items = append(s.inv.Items, item)
	sc := s.scopeLocked()
	s.mu.Unlock()

	patch, err := s.deps.Resolver.Resolve(ctx, sc, lineitem.Fetch{Kind: lineitem.FetchUOM, HSCode: item.HSCode})

	s.mu.Lock()
	i := s.indexOfLocked(item.ID)
	if i < 0 {
		s.mu.Unlock()
		return entity.InvoiceItem{}, fmt.Errorf("%w: línea %s", domain.ErrNotFound, item.ID)
	}
	var entry *entity.ErrorLog
	if err != nil {
		entry = s.failLocked(item.ID, lineitem.FieldUOM, err)
		patch = lineitem.UOMFailed(s.inv.Items[i])
	}
	s.inv.Items[i] = lineitem.Apply(s.inv.Items[i], patch)
	if s.headerReadyLocked() {
		s.scheduleLocked(item.ID, lineitem.FieldServiceTypeID, lineitem.Fetch{Kind: lineitem.FetchTaxRates, TransTypeID: item.ServiceTypeID})
	}
	out := s.inv.Items[i].Clone()
	s.mu.Unlock()

	s.record(entry)
	return out, nil
}

// RemoveItem elimina la línea y descarta sus resoluciones pendientes.
func (s *Session) RemoveItem(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(itemID)
	if i < 0 {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, itemID)
	}
	s.debounce.Cancel(itemKeys(itemID)...)
	s.inv.Items = append(s.inv.Items[:i], s.inv.Items[i+1:]...)
	return nil
}

// Edit aplica la edición de un campo y programa la consulta dependiente, si la hay.
// itemID se copia: la consulta diferida lo usa cuando el llamador ya retornó.
func (s *Session) Edit(itemID string, ch lineitem.Change) (entity.InvoiceItem, error) {
	itemID = strings.Clone(itemID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entity.InvoiceItem{}, fmt.Errorf("%w: sesión cerrada", domain.ErrConflict)
	}
	i := s.indexOfLocked(itemID)
	if i < 0 {
		return entity.InvoiceItem{}, fmt.Errorf("%w: línea %s", domain.ErrNotFound, itemID)
	}
	step, err := lineitem.Plan(s.inv.Items[i], ch, lineitem.Env{
		Lookup:     s.index,
		BuyerKnown: s.buyer != nil,
		DateKnown:  !s.date.IsZero(),
	})
	if err != nil {
		return entity.InvoiceItem{}, err
	}
	s.inv.Items[i] = lineitem.Apply(s.inv.Items[i], step.Immediate)

	keys := make([]string, 0, len(step.Cancel))
	for _, f := range step.Cancel {
		keys = append(keys, Key(itemID, string(f)))
	}
	s.debounce.Cancel(keys...)
	if step.Fetch != nil {
		s.scheduleLocked(itemID, ch.Field, *step.Fetch)
	}
	return s.inv.Items[i].Clone(), nil
}

// Snapshot copia del borrador con totales.
func (s *Session) Snapshot() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Draft copia del borrador lista para persistir.
func (s *Session) Draft() *entity.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := s.invoiceLocked()
	return &inv
}

// Adopt incorpora el estado persistido de la factura (número de referencia, estado, errores).
func (s *Session) Adopt(inv *entity.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.ID = inv.ID
	s.inv.RefNo = inv.RefNo
	s.inv.Status = inv.Status
	s.inv.FBRInvoiceNumber = inv.FBRInvoiceNumber
	s.inv.ErrorDetails = inv.ErrorDetails
	s.inv.CreatedAt = inv.CreatedAt
	s.inv.UpdatedAt = inv.UpdatedAt
	s.inv.SubmittedAt = inv.SubmittedAt
}

// Notices entrega y vacía los avisos acumulados.
func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Close cancela todo el trabajo pendiente y espera a que termine.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.debounce.Close()
}

// Pending número de resoluciones programadas o en curso.
func (s *Session) Pending() int { return s.debounce.Pending() }

func (s *Session) scheduleLocked(itemID string, field lineitem.Field, f lineitem.Fetch) {
	sc := s.scopeLocked()
	s.debounce.Schedule(Key(itemID, string(field)), func(ctx context.Context, current func() bool) {
		patch, err := s.deps.Resolver.Resolve(ctx, sc, f)
		s.complete(itemID, field, f, patch, err, current)
	})
}

func (s *Session) complete(itemID string, field lineitem.Field, f lineitem.Fetch, patch lineitem.Patch, err error, current func() bool) {
	s.mu.Lock()
	if s.closed || !current() {
		s.mu.Unlock()
		return
	}
	i := s.indexOfLocked(itemID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	var entry *entity.ErrorLog
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.mu.Unlock()
			return
		}
		entry = s.failLocked(itemID, field, err)
		if f.Kind == lineitem.FetchUOM {
			s.inv.Items[i] = lineitem.Apply(s.inv.Items[i], lineitem.UOMFailed(s.inv.Items[i]))
		}
	} else {
		s.inv.Items[i] = lineitem.Apply(s.inv.Items[i], patch)
	}
	s.mu.Unlock()
	s.record(entry)
}

// failLocked encola el aviso y prepara la entrada del registro (se persiste fuera del lock).
func (s *Session) failLocked(itemID string, field lineitem.Field, err error) *entity.ErrorLog {
	msg := fmt.Sprintf("No se pudo resolver %s: %v", field, err)
	s.notices = append(s.notices, Notice{
		Level: entity.LogLevelError, Message: msg, ItemID: itemID, Field: string(field), Time: time.Now().UTC(),
	})
	details, _ := json.Marshal(map[string]string{"session": s.id, "itemId": itemID, "field": string(field)})
	return &entity.ErrorLog{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Level:     entity.LogLevelError,
		Message:   msg,
		Details:   details,
	}
}

func (s *Session) pushNotice(n Notice) {
	n.Time = time.Now().UTC()
	s.mu.Lock()
	s.notices = append(s.notices, n)
	s.mu.Unlock()
}

func (s *Session) record(entry *entity.ErrorLog) {
	if entry == nil {
		return
	}
	s.log.Warn().Str("session", s.id).Msg(entry.Message)
	if s.deps.Logs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.deps.Logs.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).Msg("no se pudo registrar el error en el almacén")
	}
}

func (s *Session) headerReadyLocked() bool {
	return s.buyer != nil && !s.date.IsZero()
}

func (s *Session) scopeLocked() Scope {
	cred := entity.Credentials{Environment: s.env}
	if s.seller != nil {
		cred = s.seller.CredentialsFor(s.env)
	}
	return Scope{
		Credentials:  cred,
		Date:         s.date,
		ProvinceCode: s.provinceCode,
		AnnexureID:   s.cfg.AnnexureID,
	}
}

func (s *Session) indexOfLocked(itemID string) int {
	for i := range s.inv.Items {
		if s.inv.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

func (s *Session) invoiceLocked() entity.Invoice {
	inv := s.inv
	inv.Items = make([]entity.InvoiceItem, len(s.inv.Items))
	for i, it := range s.inv.Items {
		inv.Items[i] = it.Clone()
	}
	fbr.ApplyTotals(&inv)
	return inv
}

func (s *Session) viewLocked() *View {
	return &View{
		ID:          s.id,
		Environment: s.env,
		Invoice:     s.invoiceLocked(),
		Pending:     s.debounce.Pending(),
	}
}

func itemKeys(itemID string) []string {
	fields := []lineitem.Field{
		lineitem.FieldHSCode, lineitem.FieldServiceTypeID, lineitem.FieldTaxRate, lineitem.FieldSROSchedule,
	}
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = Key(itemID, string(f))
	}
	return keys
}
