// Package fbr implementa el adaptador HTTP del gateway de facturación digital de la FBR.
package fbr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	domainfbr "github.com/jhoicas/fbr-invoicing/internal/domain/fbr"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Verificar en tiempo de compilación que Client implementa FBRGateway.
var _ ports.FBRGateway = (*Client)(nil)

// ── Rutas del gateway ─────────────────────────────────────────────────────────

const (
	PathValidateSandbox    = "/di_data/v1/di/validateinvoicedata_sb"
	PathValidateProduction = "/di_data/v1/di/validateinvoicedata"
	PathSubmitSandbox      = "/di_data/v1/di/postinvoicedata_sb"
	PathSubmitProduction   = "/di_data/v1/di/postinvoicedata"

	PathHSCodes          = "/pdi/v1/itemdesccode"
	PathProvinces        = "/pdi/v1/provinces"
	PathTransactionTypes = "/pdi/v1/transtypecode"
	PathUOM              = "/pdi/v1/uom"
	PathHSUOM            = "/pdi/v2/HS_UOM"
	PathSaleTypeToRate   = "/pdi/v2/SaleTypeToRate"
	PathDocTypes         = "/pdi/v1/doctypecode"
	PathSROItemCodes     = "/pdi/v1/sroitemcode"
	PathSROSchedule      = "/pdi/v1/SroSchedule"
	PathSROItem          = "/pdi/v2/SROItem"
	PathStatl            = "/dist/v1/statl"
	PathRegType          = "/dist/v1/Get_Reg_Type"
)

// maxBodyBytes límite de lectura; el catálogo HS completo ronda unos pocos MB.
const maxBodyBytes = 16 << 20

// Client adaptador JSON/HTTP del gateway. Usa net/http con timeout por petición
// y un limitador de tasa compartido por todas las llamadas salientes.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient construye el cliente a partir de la configuración FBR.
func NewClient(cfg config.FBRConfig, log zerolog.Logger) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		log:        log,
	}
}

// ── Facturas ──────────────────────────────────────────────────────────────────

// ValidateInvoice llama a validateinvoicedata(_sb).
func (c *Client) ValidateInvoice(ctx context.Context, cred entity.Credentials, payload domainfbr.InvoicePayload) (*ports.GatewayResult, error) {
	path := PathValidateSandbox
	if cred.Environment == pkgfbr.EnvProduction {
		path = PathValidateProduction
	}
	return c.postInvoice(ctx, cred, path, payload)
}

// SubmitInvoice llama a postinvoicedata(_sb).
func (c *Client) SubmitInvoice(ctx context.Context, cred entity.Credentials, payload domainfbr.InvoicePayload) (*ports.GatewayResult, error) {
	path := PathSubmitSandbox
	if cred.Environment == pkgfbr.EnvProduction {
		path = PathSubmitProduction
	}
	return c.postInvoice(ctx, cred, path, payload)
}

func (c *Client) postInvoice(ctx context.Context, cred entity.Credentials, path string, payload domainfbr.InvoicePayload) (*ports.GatewayResult, error) {
	raw, err := c.call(ctx, cred, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	res := &ports.GatewayResult{Raw: json.RawMessage(raw)}
	if err := json.Unmarshal(raw, &res.Response); err != nil {
		return nil, fmt.Errorf("%w: decodificar respuesta de %s: %v", domain.ErrGatewayUnavailable, path, err)
	}
	return res, nil
}

// ── Catálogos ─────────────────────────────────────────────────────────────────

// HSCodes catálogo HS ordenado por código.
func (c *Client) HSCodes(ctx context.Context, cred entity.Credentials) ([]entity.HSCode, error) {
	var wire []hsCodeWire
	if err := c.getJSON(ctx, cred, PathHSCodes, nil, &wire); err != nil {
		return nil, err
	}
	out := mapSlice(wire, hsCodeWire.toEntity)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Provinces catálogo de provincias.
func (c *Client) Provinces(ctx context.Context, cred entity.Credentials) ([]entity.Province, error) {
	var wire []provinceWire
	if err := c.getJSON(ctx, cred, PathProvinces, nil, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, provinceWire.toEntity), nil
}

// TransactionTypes tipos de transacción ordenados por id.
func (c *Client) TransactionTypes(ctx context.Context, cred entity.Credentials) ([]entity.TransactionType, error) {
	var wire []transTypeWire
	if err := c.getJSON(ctx, cred, PathTransactionTypes, nil, &wire); err != nil {
		return nil, err
	}
	out := mapSlice(wire, transTypeWire.toEntity)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UOMs catálogo general de unidades.
func (c *Client) UOMs(ctx context.Context, cred entity.Credentials) ([]entity.UOM, error) {
	var wire []uomWire
	if err := c.getJSON(ctx, cred, PathUOM, nil, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, uomWire.toEntity), nil
}

// DocumentTypes tipos de documento.
func (c *Client) DocumentTypes(ctx context.Context, cred entity.Credentials) ([]entity.DocumentType, error) {
	var wire []docTypeWire
	if err := c.getJSON(ctx, cred, PathDocTypes, nil, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, docTypeWire.toEntity), nil
}

// SROItemCodes catálogo general de ítems SRO.
func (c *Client) SROItemCodes(ctx context.Context, cred entity.Credentials) ([]entity.SROItem, error) {
	var wire []sroItemWire
	if err := c.getJSON(ctx, cred, PathSROItemCodes, nil, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, sroItemWire.toEntity), nil
}

// HSUOM descripciones de unidad admitidas para el HS code.
func (c *Client) HSUOM(ctx context.Context, cred entity.Credentials, hsCode string, annexureID int) ([]string, error) {
	q := url.Values{}
	q.Set("hs_code", hsCode)
	q.Set("annexure_id", strconv.Itoa(annexureID))
	var wire []uomWire
	if err := c.getJSON(ctx, cred, PathHSUOM, q, &wire); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.Description)
	}
	return out, nil
}

// TaxRates SaleTypeToRate; la fecha viaja como DD-MMM-YYYY.
func (c *Client) TaxRates(ctx context.Context, cred entity.Credentials, date time.Time, transTypeID, provinceCode int) ([]entity.TaxRateOption, error) {
	q := url.Values{}
	q.Set("date", pkgfbr.FormatGatewayDate(date))
	q.Set("transTypeId", strconv.Itoa(transTypeID))
	q.Set("originationSupplier", strconv.Itoa(provinceCode))
	var wire []rateWire
	if err := c.getJSON(ctx, cred, PathSaleTypeToRate, q, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, rateWire.toEntity), nil
}

// SROSchedules anexos SRO para la tarifa; fecha DD-MMM-YYYY.
func (c *Client) SROSchedules(ctx context.Context, cred entity.Credentials, rateID int, date time.Time, provinceCode int) ([]entity.SROSchedule, error) {
	q := url.Values{}
	q.Set("rate_id", strconv.Itoa(rateID))
	q.Set("date", pkgfbr.FormatGatewayDate(date))
	q.Set("origination_supplier_csv", strconv.Itoa(provinceCode))
	var wire []sroScheduleWire
	if err := c.getJSON(ctx, cred, PathSROSchedule, q, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, sroScheduleWire.toEntity), nil
}

// SROItems ítems del anexo; aquí la fecha viaja como YYYY-MM-DD.
func (c *Client) SROItems(ctx context.Context, cred entity.Credentials, date time.Time, sroID int) ([]entity.SROItem, error) {
	q := url.Values{}
	q.Set("date", pkgfbr.FormatISODate(date))
	q.Set("sro_id", strconv.Itoa(sroID))
	var wire []sroItemWire
	if err := c.getJSON(ctx, cred, PathSROItem, q, &wire); err != nil {
		return nil, err
	}
	return mapSlice(wire, sroItemWire.toEntity), nil
}

// ── Registro (NTN) ────────────────────────────────────────────────────────────

// RegistrationStatus consulta statl. Cualquier estado distinto de "Active" se informa como "In-Active".
func (c *Client) RegistrationStatus(ctx context.Context, cred entity.Credentials, ntn string, date time.Time) (*ports.RegistrationStatus, error) {
	raw, err := c.call(ctx, cred, http.MethodPost, PathStatl, nil, statlRequest{RegNo: ntn, Date: pkgfbr.FormatISODate(date)})
	if err != nil {
		return nil, err
	}
	var resp statlResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decodificar statl: %v", domain.ErrGatewayUnavailable, err)
	}
	out := &ports.RegistrationStatus{Status: pkgfbr.RegistrationInactive, StatusCode: resp.StatusCode}
	if resp.Status == pkgfbr.RegistrationActive {
		out.Status = pkgfbr.RegistrationActive
	}
	if out.StatusCode == "" {
		out.StatusCode = pkgfbr.StatusCodeInvalid
	}
	return out, nil
}

// RegistrationType consulta Get_Reg_Type.
func (c *Client) RegistrationType(ctx context.Context, cred entity.Credentials, ntn string) (*ports.RegistrationType, error) {
	raw, err := c.call(ctx, cred, http.MethodPost, PathRegType, nil, regTypeRequest{RegistrationNo: ntn})
	if err != nil {
		return nil, err
	}
	var resp regTypeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: decodificar Get_Reg_Type: %v", domain.ErrGatewayUnavailable, err)
	}
	out := &ports.RegistrationType{Type: resp.RegistrationType, StatusCode: resp.StatusCode}
	if out.Type == "" {
		out.Type = pkgfbr.RegistrationUnregistered
	}
	if out.StatusCode == "" {
		out.StatusCode = pkgfbr.StatusCodeInvalid
	}
	return out, nil
}

// ── Llamada cruda ─────────────────────────────────────────────────────────────

// Do ejecuta la ruta indicada y devuelve estado y cuerpo sin interpretar.
// A diferencia del resto de métodos, una respuesta no-2xx no es error.
func (c *Client) Do(ctx context.Context, cred entity.Credentials, method, path string, query url.Values, body any) (*ports.RawResponse, error) {
	resp, raw, err := c.roundTrip(ctx, cred, method, path, query, body)
	if err != nil {
		return nil, err
	}
	out := &ports.RawResponse{StatusCode: resp.StatusCode, ContentType: resp.Header.Get("Content-Type")}
	if json.Valid(raw) {
		out.Body = json.RawMessage(raw)
	} else {
		quoted, _ := json.Marshal(string(raw))
		out.Body = quoted
	}
	return out, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) getJSON(ctx context.Context, cred entity.Credentials, path string, query url.Values, out any) error {
	raw, err := c.call(ctx, cred, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decodificar %s: %v", domain.ErrGatewayUnavailable, path, err)
	}
	return nil
}

// call ejecuta la petición y exige un estado 2xx.
func (c *Client) call(ctx context.Context, cred entity.Credentials, method, path string, query url.Values, body any) ([]byte, error) {
	resp, raw, err := c.roundTrip(ctx, cred, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s %s: HTTP %d: %s", domain.ErrGatewayUnavailable, method, path, resp.StatusCode, snippet(raw))
	}
	return raw, nil
}

func (c *Client) roundTrip(ctx context.Context, cred entity.Credentials, method, path string, query url.Values, body any) (*http.Response, []byte, error) {
	bearer := pkgfbr.BearerToken(cred.Token)
	if bearer == "" {
		return nil, nil, fmt.Errorf("%w: token de %s vacío", domain.ErrInvalidInput, cred.Environment)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("%w: limitador: %w", domain.ErrGatewayUnavailable, err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("fbr: serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("fbr: crear request: %w", err)
	}
	req.Header.Set("Authorization", bearer)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("%w: %s %s: timeout o cancelación: %w", domain.ErrGatewayUnavailable, method, path, ctx.Err())
		}
		return nil, nil, fmt.Errorf("%w: %s %s: %v", domain.ErrGatewayUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: leer respuesta de %s: %v", domain.ErrGatewayUnavailable, path, err)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("env", cred.Environment).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("llamada al gateway FBR")
	return resp, raw, nil
}

// snippet recorta el cuerpo para mensajes de error sin partir una runa UTF-8.
func snippet(b []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(b))
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
