package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports/portstest"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/cache"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

func accepted(number string) func(context.Context, entity.Credentials, fbr.InvoicePayload) (*ports.GatewayResult, error) {
	return func(context.Context, entity.Credentials, fbr.InvoicePayload) (*ports.GatewayResult, error) {
		resp := fbr.GatewayResponse{
			InvoiceNumber:      number,
			ValidationResponse: &fbr.ValidationResponse{StatusCode: "00", Status: "Valid"},
		}
		raw, _ := json.Marshal(resp)
		return &ports.GatewayResult{Response: resp, Raw: raw}, nil
	}
}

func rejected(detail string) func(context.Context, entity.Credentials, fbr.InvoicePayload) (*ports.GatewayResult, error) {
	return func(context.Context, entity.Credentials, fbr.InvoicePayload) (*ports.GatewayResult, error) {
		return &ports.GatewayResult{Response: fbr.GatewayResponse{
			ValidationResponse: &fbr.ValidationResponse{StatusCode: "01", Status: "Invalid", Error: detail},
		}}, nil
	}
}

type env struct {
	gw     *portstest.Gateway
	store  *kvstore.Store
	locker *cache.Locker
	uc     *billing.SubmissionUseCase
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{
		gw:     &portstest.Gateway{ValidateFn: accepted(""), SubmitFn: accepted("7000007DI1747119701593")},
		store:  kvstore.NewStore(kvstore.NewMemoryBackend()),
		locker: cache.NewLocker(),
	}
	require.NoError(t, e.store.Sellers.Save(ctx, &entity.Seller{
		ID: "s1", NTN: "1234567", BusinessName: "Acme", Province: "PUNJAB", SandboxToken: "tok", LastSaleInvoiceID: 4,
	}))
	require.NoError(t, e.store.Buyers.Save(ctx, &entity.Buyer{
		ID: "b1", NTN: "7654321", BusinessName: "Beta", Province: "SINDH", RegistrationType: "Registered",
	}))
	require.NoError(t, e.store.Invoices.Save(ctx, &entity.Invoice{
		ID: "inv1", Type: "Sale Invoice", Date: "2025-02-04", SellerID: "s1", BuyerID: "b1",
		ScenarioID: "SN001", Currency: "PKR", Status: entity.InvoiceStatusDraft,
		Items: []entity.InvoiceItem{{
			ID: "it1", HSCode: "8471.3010", Description: "LAPTOPS", UOM: "PCS", ServiceTypeID: 75,
			Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.NewFromInt(17),
		}},
	}))
	e.uc = billing.NewSubmissionUseCase(e.gw, e.locker, e.store.Invoices, e.store.Sellers, e.store.Buyers, e.store.Logs, zerolog.Nop())
	return e
}

func (e *env) invoice(t *testing.T) *entity.Invoice {
	t.Helper()
	inv, err := e.store.Invoices.GetByID(context.Background(), "inv1")
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_Exito(t *testing.T) {
	e := setup(t)

	inv, err := e.uc.Submit(context.Background(), "inv1", "sandbox")
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSubmitted, inv.Status)
	assert.Equal(t, "SI-0005", inv.RefNo)
	assert.Equal(t, "7000007DI1747119701593", inv.FBRInvoiceNumber)
	assert.NotEmpty(t, inv.SubmissionResponse)
	assert.NotNil(t, inv.SubmittedAt)
	assert.Equal(t, "234.00", inv.TotalAmount.StringFixed(2))

	stored := e.invoice(t)
	assert.True(t, stored.IsSubmitted())
	seller, err := e.store.Sellers.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, seller.LastSaleInvoiceID)
}

func TestSubmit_RechazoEnValidacionQuedaBorrador(t *testing.T) {
	e := setup(t)
	e.gw.ValidateFn = rejected("Buyer NTN is invalid")

	_, err := e.uc.Submit(context.Background(), "inv1", "sandbox")
	var rej *domain.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, billing.StepValidate, rej.Step)
	assert.Equal(t, "Buyer NTN is invalid", rej.Detail)
	assert.Zero(t, e.gw.Calls("submit"))

	stored := e.invoice(t)
	assert.Equal(t, entity.InvoiceStatusDraft, stored.Status)
	assert.Contains(t, stored.ErrorDetails, "Buyer NTN is invalid")

	logs, err := e.store.Logs.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogLevelError, logs[0].Level)
}

func TestSubmit_FalloDeRedEnSubmitNoAvanzaContador(t *testing.T) {
	e := setup(t)
	e.gw.SubmitFn = func(context.Context, entity.Credentials, fbr.InvoicePayload) (*ports.GatewayResult, error) {
		return nil, domain.ErrGatewayUnavailable
	}

	_, err := e.uc.Submit(context.Background(), "inv1", "sandbox")
	assert.ErrorIs(t, err, domain.ErrGatewayUnavailable)

	assert.Equal(t, entity.InvoiceStatusDraft, e.invoice(t).Status)
	seller, err := e.store.Sellers.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, seller.LastSaleInvoiceID)
}

func TestSubmit_RechazoEnSubmit(t *testing.T) {
	e := setup(t)
	e.gw.SubmitFn = rejected("duplicate invoice")

	_, err := e.uc.Submit(context.Background(), "inv1", "sandbox")
	var rej *domain.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, billing.StepSubmit, rej.Step)
	assert.False(t, e.invoice(t).IsSubmitted())
}

func TestSubmit_YaEnviadaEsConflicto(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Submit(context.Background(), "inv1", "sandbox")
	require.NoError(t, err)

	_, err = e.uc.Submit(context.Background(), "inv1", "sandbox")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, e.gw.Calls("validate"))
}

func TestSubmit_SandboxSinEscenario(t *testing.T) {
	e := setup(t)
	inv := e.invoice(t)
	inv.ScenarioID = ""
	require.NoError(t, e.store.Invoices.Save(context.Background(), inv))

	_, err := e.uc.Submit(context.Background(), "inv1", "sandbox")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, e.gw.Calls("validate"))
}

func TestSubmit_ProduccionSinTokenEsInvalido(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Submit(context.Background(), "inv1", "production")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSubmit_EnvioConcurrenteBloqueado(t *testing.T) {
	e := setup(t)
	release, err := e.locker.Acquire(context.Background(), "invoice:inv1")
	require.NoError(t, err)
	defer release()

	_, err = e.uc.Submit(context.Background(), "inv1", "sandbox")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSubmit_ConcurrentesDelMismoVendedorNumeranEnSerie(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	second := e.invoice(t)
	second.ID = "inv2"
	require.NoError(t, e.store.Invoices.Save(ctx, second))

	entered := make(chan struct{}, 2)
	gate := make(chan struct{})
	var mu sync.Mutex
	var refs []string
	e.gw.ValidateFn = func(c context.Context, cred entity.Credentials, p fbr.InvoicePayload) (*ports.GatewayResult, error) {
		mu.Lock()
		refs = append(refs, p.InvoiceRefNo)
		mu.Unlock()
		entered <- struct{}{}
		<-gate
		return accepted("")(c, cred, p)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"inv1", "inv2"} {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.uc.Submit(ctx, id, "sandbox")
		}()
	}

	<-entered
	select {
	case <-entered:
		t.Fatal("el segundo envío no debe numerar mientras el primero sigue en curso")
	case <-time.After(50 * time.Millisecond):
	}
	close(gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	sort.Strings(refs)
	assert.Equal(t, []string{"SI-0005", "SI-0006"}, refs)
	seller, err := e.store.Sellers.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 6, seller.LastSaleInvoiceID)
}

func TestSubmit_ConservaEdicionDelPerfilDuranteElEnvio(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.gw.ValidateFn = func(c context.Context, cred entity.Credentials, p fbr.InvoicePayload) (*ports.GatewayResult, error) {
		seller, err := e.store.Sellers.GetByID(c, "s1")
		require.NoError(t, err)
		seller.Address = "Nueva dirección"
		require.NoError(t, e.store.Sellers.Save(c, seller))
		return accepted("")(c, cred, p)
	}

	_, err := e.uc.Submit(ctx, "inv1", "sandbox")
	require.NoError(t, err)

	seller, err := e.store.Sellers.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Nueva dirección", seller.Address)
	assert.Equal(t, 5, seller.LastSaleInvoiceID)
}

func TestSubmit_Inexistente(t *testing.T) {
	e := setup(t)
	_, err := e.uc.Submit(context.Background(), "nope", "sandbox")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borradores
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveDraft_CalculaTotalesYRechazaEnviadas(t *testing.T) {
	e := setup(t)
	uc := billing.NewInvoiceUseCase(e.store.Invoices)

	draft := e.invoice(t)
	draft.ID = "inv2"
	saved, err := uc.SaveDraft(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "34.00", saved.SalesTax.StringFixed(2))
	assert.Equal(t, entity.InvoiceStatusDraft, saved.Status)
	assert.False(t, saved.CreatedAt.IsZero())

	_, err = e.uc.Submit(context.Background(), "inv1", "sandbox")
	require.NoError(t, err)
	_, err = uc.SaveDraft(context.Background(), e.invoice(t))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), "inv1"), domain.ErrConflict)

	require.NoError(t, uc.Delete(context.Background(), "inv2"))
	_, err = uc.Get(context.Background(), "inv2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// PDF
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{ got *entity.Invoice }

func (f *fakePDF) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice, _ *entity.Seller, _ *entity.Buyer) ([]byte, error) {
	f.got = inv
	return []byte("%PDF-1.3"), nil
}

func TestDownloadInvoicePDF(t *testing.T) {
	e := setup(t)
	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(e.store.Invoices, e.store.Sellers, e.store.Buyers, gen)

	out, name, err := uc.DownloadInvoicePDF(context.Background(), "inv1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(out))
	assert.Equal(t, "invoice_inv1.pdf", name)

	_, _, err = uc.DownloadInvoicePDF(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
