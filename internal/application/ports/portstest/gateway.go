// Package portstest dobles de prueba de los puertos de aplicación.
package portstest

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
)

var _ ports.FBRGateway = (*Gateway)(nil)

// Gateway doble configurable del gateway FBR. Los hooks nil devuelven
// listas vacías (o ErrGatewayUnavailable para validate/submit) y cada llamada se cuenta.
type Gateway struct {
	ValidateFn     func(ctx context.Context, cred entity.Credentials, p fbr.InvoicePayload) (*ports.GatewayResult, error)
	SubmitFn       func(ctx context.Context, cred entity.Credentials, p fbr.InvoicePayload) (*ports.GatewayResult, error)
	HSCodesFn      func(ctx context.Context) ([]entity.HSCode, error)
	ProvincesFn    func(ctx context.Context) ([]entity.Province, error)
	TransTypesFn   func(ctx context.Context) ([]entity.TransactionType, error)
	UOMsFn         func(ctx context.Context) ([]entity.UOM, error)
	DocTypesFn     func(ctx context.Context) ([]entity.DocumentType, error)
	SROItemCodesFn func(ctx context.Context) ([]entity.SROItem, error)
	HSUOMFn        func(ctx context.Context, hsCode string, annexureID int) ([]string, error)
	TaxRatesFn     func(ctx context.Context, date time.Time, transTypeID, provinceCode int) ([]entity.TaxRateOption, error)
	SROSchedulesFn func(ctx context.Context, rateID int, date time.Time, provinceCode int) ([]entity.SROSchedule, error)
	SROItemsFn     func(ctx context.Context, date time.Time, sroID int) ([]entity.SROItem, error)
	RegStatusFn    func(ctx context.Context, ntn string, date time.Time) (*ports.RegistrationStatus, error)
	RegTypeFn      func(ctx context.Context, ntn string) (*ports.RegistrationType, error)
	DoFn           func(ctx context.Context, method, path string, query url.Values, body any) (*ports.RawResponse, error)

	mu    sync.Mutex
	calls map[string]int
}

// Calls número de llamadas registradas para la operación.
func (g *Gateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *Gateway) count(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls == nil {
		g.calls = make(map[string]int)
	}
	g.calls[op]++
}

func (g *Gateway) ValidateInvoice(ctx context.Context, cred entity.Credentials, p fbr.InvoicePayload) (*ports.GatewayResult, error) {
	g.count("validate")
	if g.ValidateFn == nil {
		return nil, domain.ErrGatewayUnavailable
	}
	return g.ValidateFn(ctx, cred, p)
}

func (g *Gateway) SubmitInvoice(ctx context.Context, cred entity.Credentials, p fbr.InvoicePayload) (*ports.GatewayResult, error) {
	g.count("submit")
	if g.SubmitFn == nil {
		return nil, domain.ErrGatewayUnavailable
	}
	return g.SubmitFn(ctx, cred, p)
}

func (g *Gateway) HSCodes(ctx context.Context, _ entity.Credentials) ([]entity.HSCode, error) {
	g.count("hs_codes")
	if g.HSCodesFn == nil {
		return []entity.HSCode{}, nil
	}
	return g.HSCodesFn(ctx)
}

func (g *Gateway) Provinces(ctx context.Context, _ entity.Credentials) ([]entity.Province, error) {
	g.count("provinces")
	if g.ProvincesFn == nil {
		return []entity.Province{}, nil
	}
	return g.ProvincesFn(ctx)
}

func (g *Gateway) TransactionTypes(ctx context.Context, _ entity.Credentials) ([]entity.TransactionType, error) {
	g.count("transaction_types")
	if g.TransTypesFn == nil {
		return []entity.TransactionType{}, nil
	}
	return g.TransTypesFn(ctx)
}

func (g *Gateway) UOMs(ctx context.Context, _ entity.Credentials) ([]entity.UOM, error) {
	g.count("uoms")
	if g.UOMsFn == nil {
		return []entity.UOM{}, nil
	}
	return g.UOMsFn(ctx)
}

func (g *Gateway) DocumentTypes(ctx context.Context, _ entity.Credentials) ([]entity.DocumentType, error) {
	g.count("document_types")
	if g.DocTypesFn == nil {
		return []entity.DocumentType{}, nil
	}
	return g.DocTypesFn(ctx)
}

func (g *Gateway) SROItemCodes(ctx context.Context, _ entity.Credentials) ([]entity.SROItem, error) {
	g.count("sro_item_codes")
	if g.SROItemCodesFn == nil {
		return []entity.SROItem{}, nil
	}
	return g.SROItemCodesFn(ctx)
}

func (g *Gateway) HSUOM(ctx context.Context, _ entity.Credentials, hsCode string, annexureID int) ([]string, error) {
	g.count("hs_uom")
	if g.HSUOMFn == nil {
		return []string{}, nil
	}
	return g.HSUOMFn(ctx, hsCode, annexureID)
}

func (g *Gateway) TaxRates(ctx context.Context, _ entity.Credentials, date time.Time, transTypeID, provinceCode int) ([]entity.TaxRateOption, error) {
	g.count("tax_rates")
	if g.TaxRatesFn == nil {
		return []entity.TaxRateOption{}, nil
	}
	return g.TaxRatesFn(ctx, date, transTypeID, provinceCode)
}

func (g *Gateway) SROSchedules(ctx context.Context, _ entity.Credentials, rateID int, date time.Time, provinceCode int) ([]entity.SROSchedule, error) {
	g.count("sro_schedules")
	if g.SROSchedulesFn == nil {
		return []entity.SROSchedule{}, nil
	}
	return g.SROSchedulesFn(ctx, rateID, date, provinceCode)
}

func (g *Gateway) SROItems(ctx context.Context, _ entity.Credentials, date time.Time, sroID int) ([]entity.SROItem, error) {
	g.count("sro_items")
	if g.SROItemsFn == nil {
		return []entity.SROItem{}, nil
	}
	return g.SROItemsFn(ctx, date, sroID)
}

func (g *Gateway) RegistrationStatus(ctx context.Context, _ entity.Credentials, ntn string, date time.Time) (*ports.RegistrationStatus, error) {
	g.count("reg_status")
	if g.RegStatusFn == nil {
		return nil, domain.ErrGatewayUnavailable
	}
	return g.RegStatusFn(ctx, ntn, date)
}

func (g *Gateway) RegistrationType(ctx context.Context, _ entity.Credentials, ntn string) (*ports.RegistrationType, error) {
	g.count("reg_type")
	if g.RegTypeFn == nil {
		return nil, domain.ErrGatewayUnavailable
	}
	return g.RegTypeFn(ctx, ntn)
}

func (g *Gateway) Do(ctx context.Context, _ entity.Credentials, method, path string, query url.Values, body any) (*ports.RawResponse, error) {
	g.count("do")
	if g.DoFn == nil {
		return nil, domain.ErrGatewayUnavailable
	}
	return g.DoFn(ctx, method, path, query, body)
}
