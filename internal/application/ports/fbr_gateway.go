package ports

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
)

// GatewayResult respuesta decodificada de validate/submit junto con el cuerpo crudo.
type GatewayResult struct {
	Response fbr.GatewayResponse
	Raw      json.RawMessage
}

// RegistrationStatus resultado de /dist/v1/statl.
type RegistrationStatus struct {
	Status     string // "Active" | "In-Active"
	StatusCode string
}

// RegistrationType resultado de /dist/v1/Get_Reg_Type.
type RegistrationType struct {
	Type       string
	StatusCode string
}

// RawResponse respuesta sin interpretar (pruebas de API).
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        json.RawMessage
}

// FBRGateway puerto de salida hacia el gateway de facturación digital.
// Las credenciales viajan en cada llamada: el adaptador no guarda estado por vendedor.
// Errores de red o respuestas no-2xx envuelven domain.ErrGatewayUnavailable.
type FBRGateway interface {
	ValidateInvoice(ctx context.Context, cred entity.Credentials, payload fbr.InvoicePayload) (*GatewayResult, error)
	SubmitInvoice(ctx context.Context, cred entity.Credentials, payload fbr.InvoicePayload) (*GatewayResult, error)

	HSCodes(ctx context.Context, cred entity.Credentials) ([]entity.HSCode, error)
	Provinces(ctx context.Context, cred entity.Credentials) ([]entity.Province, error)
	TransactionTypes(ctx context.Context, cred entity.Credentials) ([]entity.TransactionType, error)
	UOMs(ctx context.Context, cred entity.Credentials) ([]entity.UOM, error)
	DocumentTypes(ctx context.Context, cred entity.Credentials) ([]entity.DocumentType, error)
	SROItemCodes(ctx context.Context, cred entity.Credentials) ([]entity.SROItem, error)

	// HSUOM unidades admitidas para un HS code dentro del anexo.
	HSUOM(ctx context.Context, cred entity.Credentials, hsCode string, annexureID int) ([]string, error)
	// TaxRates tarifas para el tipo de transacción, fecha y provincia de origen.
	TaxRates(ctx context.Context, cred entity.Credentials, date time.Time, transTypeID, provinceCode int) ([]entity.TaxRateOption, error)
	SROSchedules(ctx context.Context, cred entity.Credentials, rateID int, date time.Time, provinceCode int) ([]entity.SROSchedule, error)
	SROItems(ctx context.Context, cred entity.Credentials, date time.Time, sroID int) ([]entity.SROItem, error)

	RegistrationStatus(ctx context.Context, cred entity.Credentials, ntn string, date time.Time) (*RegistrationStatus, error)
	RegistrationType(ctx context.Context, cred entity.Credentials, ntn string) (*RegistrationType, error)

	// Do llamada cruda a una ruta del gateway (GET: query; otros: cuerpo JSON).
	Do(ctx context.Context, cred entity.Credentials, method, path string, query url.Values, body any) (*RawResponse, error)
}
