package editor_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/application/editor"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports/portstest"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
)

const debounce = 40 * time.Millisecond

// ──────────────────────────────────────────────────────────────────────────────
// Debouncer
// ──────────────────────────────────────────────────────────────────────────────

func TestDebouncer_UltimaEscrituraGana(t *testing.T) {
	d := editor.NewDebouncer(debounce)
	defer d.Close()

	var mu sync.Mutex
	var got []int
	for v := 1; v <= 3; v++ {
		v := v
		d.Schedule("it1:serviceTypeId", func(ctx context.Context, current func() bool) {
			mu.Lock()
			defer mu.Unlock()
			if current() {
				got = append(got, v)
			}
		})
	}

	require.Eventually(t, func() bool { return d.Pending() == 0 }, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{3}, got)
}

func TestDebouncer_CancelDescartaPendiente(t *testing.T) {
	d := editor.NewDebouncer(debounce)
	defer d.Close()

	var calls atomic.Int32
	d.Schedule("it1:taxRate", func(context.Context, func() bool) { calls.Add(1) })
	d.Cancel("it1:taxRate")

	time.Sleep(3 * debounce)
	assert.Zero(t, calls.Load())
	assert.Zero(t, d.Pending())
}

func TestDebouncer_ReprogramarCancelaLaEjecucionEnCurso(t *testing.T) {
	d := editor.NewDebouncer(time.Millisecond)
	defer d.Close()

	started := make(chan struct{})
	firstCurrent := make(chan bool, 1)
	d.Schedule("k", func(ctx context.Context, current func() bool) {
		close(started)
		<-ctx.Done()
		firstCurrent <- current()
	})
	<-started

	var second atomic.Bool
	d.Schedule("k", func(_ context.Context, current func() bool) { second.Store(current()) })

	assert.False(t, <-firstCurrent)
	require.Eventually(t, second.Load, time.Second, 5*time.Millisecond)
}

func TestDebouncer_ClavesIndependientes(t *testing.T) {
	d := editor.NewDebouncer(debounce)
	defer d.Close()

	var calls atomic.Int32
	d.Schedule(editor.Key("a", "taxRate"), func(context.Context, func() bool) { calls.Add(1) })
	d.Schedule(editor.Key("b", "taxRate"), func(context.Context, func() bool) { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	gw     *portstest.Gateway
	store  *kvstore.Store
	editor *editor.Editor

	mu        sync.Mutex
	taxCalls  []int
	provCodes []int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureConfig(t, editor.Config{Debounce: debounce})
}

func newFixtureConfig(t *testing.T, cfg editor.Config) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: kvstore.NewStore(kvstore.NewMemoryBackend())}
	f.gw = &portstest.Gateway{
		HSCodesFn: func(context.Context) ([]entity.HSCode, error) {
			return []entity.HSCode{{Code: "8471.3010", Description: "LAPTOPS"}}, nil
		},
		TransTypesFn: func(context.Context) ([]entity.TransactionType, error) {
			return []entity.TransactionType{{ID: 75, Description: "Goods at standard rate (default)"}, {ID: 81, Description: "Exempt goods"}}, nil
		},
		ProvincesFn: func(context.Context) ([]entity.Province, error) {
			return []entity.Province{{Code: 7, Description: "PUNJAB"}, {Code: 8, Description: "SINDH"}}, nil
		},
		HSUOMFn: func(context.Context, string, int) ([]string, error) { return []string{"KG", "PCS"}, nil },
		TaxRatesFn: func(_ context.Context, _ time.Time, transTypeID, provinceCode int) ([]entity.TaxRateOption, error) {
			f.mu.Lock()
			f.taxCalls = append(f.taxCalls, transTypeID)
			f.provCodes = append(f.provCodes, provinceCode)
			f.mu.Unlock()
			return []entity.TaxRateOption{
				{ID: 280, Description: "17%", Value: decimal.NewFromInt(17)},
				{ID: 281, Description: "18%", Value: decimal.NewFromInt(18)},
			}, nil
		},
		SROSchedulesFn: func(context.Context, int, time.Time, int) ([]entity.SROSchedule, error) {
			return []entity.SROSchedule{{ID: 7, Description: "EIGHTH SCHEDULE"}}, nil
		},
		SROItemsFn: func(context.Context, time.Time, int) ([]entity.SROItem, error) {
			return []entity.SROItem{{ID: 12, Description: "12"}, {ID: 13, Description: "13"}}, nil
		},
	}
	require.NoError(t, f.store.Sellers.Save(ctx, &entity.Seller{ID: "s1", NTN: "1234567", SandboxToken: "tok", Province: "PUNJAB"}))
	require.NoError(t, f.store.Buyers.Save(ctx, &entity.Buyer{ID: "b1", NTN: "7654321", Province: "SINDH"}))

	log := zerolog.Nop()
	f.editor = editor.NewEditor(editor.Deps{
		Catalogs: catalog.NewCatalogUseCase(f.gw, nil, time.Hour, log),
		Resolver: editor.NewResolver(f.gw),
		Sellers:  f.store.Sellers,
		Buyers:   f.store.Buyers,
		Invoices: f.store.Invoices,
		Settings: f.store.Settings,
		Logs:     f.store.Logs,
	}, cfg, log)
	t.Cleanup(f.editor.Close)
	return f
}

func (f *fixture) openReady(t *testing.T) *editor.Session {
	t.Helper()
	s, err := f.editor.Open(context.Background())
	require.NoError(t, err)
	seller, buyer := "s1", "b1"
	_, err = s.SetHeader(context.Background(), editor.HeaderInput{SellerID: &seller, BuyerID: &buyer})
	require.NoError(t, err)
	return s
}

func waitIdle(t *testing.T, s *editor.Session) {
	t.Helper()
	require.Eventually(t, func() bool { return s.Pending() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestSession_AddItemResuelveUnidadYTarifas(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)

	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8471.3010", item.HSCode)
	assert.Equal(t, "LAPTOPS", item.Description)
	assert.Equal(t, "KG", item.UOM)
	assert.Equal(t, []string{"KG", "PCS"}, item.UOMOptions)
	assert.Equal(t, 75, item.ServiceTypeID)

	waitIdle(t, s)
	got := s.Snapshot().Invoice.Items[0]
	assert.Len(t, got.TaxRateOptions, 2)
	assert.True(t, got.TaxRate.IsZero())
	f.mu.Lock()
	assert.Equal(t, []int{8}, f.provCodes, "provincia del comprador")
	f.mu.Unlock()
}

func TestSession_ServiceTypeConDebounceConsultaUnaVez(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)
	item, err := s.AddItem(context.Background())
	require.NoError(t, err)

	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldServiceTypeID, Value: "81"})
	require.NoError(t, err)
	edited, err := s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldServiceTypeID, Value: "75"})
	require.NoError(t, err)
	assert.True(t, edited.TaxRate.IsZero())
	assert.Nil(t, edited.RateID)

	waitIdle(t, s)
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []int{75}, f.taxCalls)
}

func TestSession_TarifaDisparaCadenaSRO(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)
	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	waitIdle(t, s)

	edited, err := s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldTaxRate, Value: "17"})
	require.NoError(t, err)
	require.NotNil(t, edited.RateID)
	assert.Equal(t, 280, *edited.RateID)

	waitIdle(t, s)
	got := s.Snapshot().Invoice.Items[0]
	require.NotNil(t, got.SROSchedule)
	assert.Equal(t, 7, *got.SROSchedule)
	require.NotNil(t, got.SROItem)
	assert.Equal(t, 12, *got.SROItem)

	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldSROItem, Value: "99"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSession_FalloDeUnidadUsaPCSYAvisa(t *testing.T) {
	f := newFixture(t)
	f.gw.HSUOMFn = func(context.Context, string, int) ([]string, error) { return nil, domain.ErrGatewayUnavailable }
	s := f.openReady(t)

	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PCS", item.UOM)

	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, entity.LogLevelError, notices[0].Level)
	assert.Empty(t, s.Notices(), "los avisos se vacían al leerlos")

	logs, err := f.store.Logs.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

// assertResolutionFailed comprueba el aviso de error encolado y su entrada en el registro.
func (f *fixture) assertResolutionFailed(t *testing.T, s *editor.Session, field lineitem.Field) {
	t.Helper()
	notices := s.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, entity.LogLevelError, notices[0].Level)
	assert.Equal(t, string(field), notices[0].Field)

	logs, err := f.store.Logs.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogLevelError, logs[0].Level)
}

func TestSession_FalloDeTarifasConservaLaLinea(t *testing.T) {
	f := newFixture(t)
	f.gw.TaxRatesFn = func(context.Context, time.Time, int, int) ([]entity.TaxRateOption, error) {
		return nil, domain.ErrGatewayUnavailable
	}
	s := f.openReady(t)

	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	waitIdle(t, s)

	got := s.Snapshot().Invoice.Items[0]
	assert.Equal(t, item.ServiceTypeID, got.ServiceTypeID)
	assert.Equal(t, "KG", got.UOM)
	assert.Empty(t, got.TaxRateOptions)
	assert.True(t, got.TaxRate.IsZero())
	assert.Nil(t, got.RateID)
	f.assertResolutionFailed(t, s, lineitem.FieldServiceTypeID)
}

func TestSession_FalloDeAnexosSROConservaLaTarifa(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)
	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	waitIdle(t, s)

	f.gw.SROSchedulesFn = func(context.Context, int, time.Time, int) ([]entity.SROSchedule, error) {
		return nil, domain.ErrGatewayUnavailable
	}
	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldTaxRate, Value: "17"})
	require.NoError(t, err)
	waitIdle(t, s)

	got := s.Snapshot().Invoice.Items[0]
	assert.Equal(t, "17", got.TaxRate.String())
	require.NotNil(t, got.RateID)
	assert.Equal(t, 280, *got.RateID)
	assert.Len(t, got.TaxRateOptions, 2)
	assert.Nil(t, got.SROSchedule)
	assert.Empty(t, got.SROScheduleOptions)
	f.assertResolutionFailed(t, s, lineitem.FieldTaxRate)
}

func TestSession_FalloDeItemsSROConservaElAnexo(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)
	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	waitIdle(t, s)
	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldTaxRate, Value: "17"})
	require.NoError(t, err)
	waitIdle(t, s)

	f.gw.SROItemsFn = func(context.Context, time.Time, int) ([]entity.SROItem, error) {
		return nil, domain.ErrGatewayUnavailable
	}
	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldSROSchedule, Value: "7"})
	require.NoError(t, err)
	waitIdle(t, s)

	got := s.Snapshot().Invoice.Items[0]
	assert.Equal(t, "17", got.TaxRate.String())
	require.NotNil(t, got.SROSchedule)
	assert.Equal(t, 7, *got.SROSchedule)
	assert.Len(t, got.SROScheduleOptions, 1)
	assert.Nil(t, got.SROItem)
	assert.Empty(t, got.SROItemOptions)
	f.assertResolutionFailed(t, s, lineitem.FieldSROSchedule)
}

func TestSession_SnapshotCalculaTotales(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)
	item, err := s.AddItem(context.Background())
	require.NoError(t, err)
	waitIdle(t, s)

	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldQuantity, Value: "2"})
	require.NoError(t, err)
	_, err = s.Edit(item.ID, lineitem.Change{Field: lineitem.FieldTaxRate, Value: "17"})
	require.NoError(t, err)

	inv := s.Snapshot().Invoice
	assert.Equal(t, "234.00", inv.TotalAmount.StringFixed(2))
	assert.Equal(t, "34.00", inv.SalesTax.StringFixed(2))
}

func TestSession_RemoveItemDescartaPendientes(t *testing.T) {
	f := newFixture(t)
	s := f.openReady(t)
	item, err := s.AddItem(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.RemoveItem(item.ID))
	assert.Zero(t, s.Pending())
	assert.ErrorIs(t, s.RemoveItem(item.ID), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestEditor_OpenDraftEnviadaRechazada(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Invoices.Save(context.Background(), &entity.Invoice{
		ID: "inv1", RefNo: "SI-0001", Status: entity.InvoiceStatusSubmitted,
	}))

	_, err := f.editor.OpenDraft(context.Background(), "inv1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.editor.OpenDraft(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditor_OpenDraftRecuperaLineas(t *testing.T) {
	f := newFixture(t)
	it := lineitem.New("it1", entity.HSCode{}, entity.TransactionType{}, 0)
	require.NoError(t, f.store.Invoices.Save(context.Background(), &entity.Invoice{
		ID: "inv2", Status: entity.InvoiceStatusDraft, SellerID: "s1", BuyerID: "b1",
		Date: "2025-02-04", Items: []entity.InvoiceItem{it},
	}))

	s, err := f.editor.OpenDraft(context.Background(), "inv2")
	require.NoError(t, err)
	draft := s.Draft()
	assert.Equal(t, "inv2", draft.ID)
	assert.Equal(t, "s1", draft.SellerID)
	require.Len(t, draft.Items, 1)

	again, err := f.editor.OpenDraft(context.Background(), "inv2")
	require.NoError(t, err)
	assert.Equal(t, s.ID(), again.ID())

	require.NoError(t, f.editor.Discard(s.ID()))
	_, err = f.editor.Get(s.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditor_SesionInactivaSeCierra(t *testing.T) {
	f := newFixtureConfig(t, editor.Config{Debounce: debounce, IdleTTL: 200 * time.Millisecond})
	ctx := context.Background()
	idle, err := f.editor.Open(ctx)
	require.NoError(t, err)
	active, err := f.editor.Open(ctx)
	require.NoError(t, err)

	deadline := time.Now().Add(400 * time.Millisecond)
	for time.Now().Before(deadline) {
		_, err := f.editor.Get(active.ID())
		require.NoError(t, err, "los accesos renuevan la inactividad")
		time.Sleep(20 * time.Millisecond)
	}

	_, err = f.editor.Get(idle.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.Eventually(t, func() bool {
		_, err := idle.AddItem(ctx)
		return errors.Is(err, domain.ErrConflict)
	}, 2*time.Second, 20*time.Millisecond, "la sesión vencida queda cerrada")

	_, err = f.editor.Get(active.ID())
	assert.NoError(t, err)
}

func TestEditor_CapacidadCierraLaMenosUsada(t *testing.T) {
	f := newFixtureConfig(t, editor.Config{Debounce: debounce, MaxSessions: 1})
	ctx := context.Background()
	first, err := f.editor.Open(ctx)
	require.NoError(t, err)
	second, err := f.editor.Open(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, f.editor.Len())
	_, err = f.editor.Get(first.ID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = first.AddItem(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.editor.Get(second.ID())
	assert.NoError(t, err)
}
