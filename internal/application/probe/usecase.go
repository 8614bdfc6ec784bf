// Package probe ejecuta llamadas de prueba contra endpoints conocidos del gateway FBR.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// Endpoint ruta admitida para pruebas.
type Endpoint struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
}

// endpoints lista blanca: solo estas rutas pueden invocarse desde la consola de pruebas.
var endpoints = map[string]Endpoint{
	"validate_sandbox":  {Method: http.MethodPost, Path: "/di_data/v1/di/validateinvoicedata_sb"},
	"post_sandbox":      {Method: http.MethodPost, Path: "/di_data/v1/di/postinvoicedata_sb"},
	"validate":          {Method: http.MethodPost, Path: "/di_data/v1/di/validateinvoicedata"},
	"post":              {Method: http.MethodPost, Path: "/di_data/v1/di/postinvoicedata"},
	"provinces":         {Method: http.MethodGet, Path: "/pdi/v1/provinces"},
	"doc_types":         {Method: http.MethodGet, Path: "/pdi/v1/doctypecode"},
	"item_codes":        {Method: http.MethodGet, Path: "/pdi/v1/itemdesccode"},
	"sro_item_codes":    {Method: http.MethodGet, Path: "/pdi/v1/sroitemcode"},
	"transaction_types": {Method: http.MethodGet, Path: "/pdi/v1/transtypecode"},
	"uom":               {Method: http.MethodGet, Path: "/pdi/v1/uom"},
	"sro_schedule":      {Method: http.MethodGet, Path: "/pdi/v1/SroSchedule"},
	"sale_type_to_rate": {Method: http.MethodGet, Path: "/pdi/v2/SaleTypeToRate"},
	"hs_uom":            {Method: http.MethodGet, Path: "/pdi/v2/HS_UOM"},
	"sro_item":          {Method: http.MethodGet, Path: "/pdi/v2/SROItem"},
	"statl":             {Method: http.MethodPost, Path: "/dist/v1/statl"},
	"reg_type":          {Method: http.MethodPost, Path: "/dist/v1/Get_Reg_Type"},
}

// Endpoints lista ordenada de endpoints disponibles.
func Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(endpoints))
	for name, ep := range endpoints {
		ep.Name = name
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProbeUseCase consola de pruebas del gateway.
type ProbeUseCase struct {
	gw         ports.FBRGateway
	sellerRepo repository.SellerRepository
	log        zerolog.Logger
}

// NewProbeUseCase construye el caso de uso.
func NewProbeUseCase(gw ports.FBRGateway, sellerRepo repository.SellerRepository, log zerolog.Logger) *ProbeUseCase {
	return &ProbeUseCase{gw: gw, sellerRepo: sellerRepo, log: log}
}

// Run invoca el endpoint con las credenciales del vendedor. En GET los parámetros
// van en la query; en POST forman el cuerpo JSON. Un status no-2xx del gateway
// se devuelve como resultado, no como error.
func (uc *ProbeUseCase) Run(ctx context.Context, in dto.ProbeRequest) (*dto.ProbeResponse, error) {
	ep, ok := endpoints[in.Endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: endpoint %q no admitido", domain.ErrInvalidInput, in.Endpoint)
	}
	env := in.Environment
	if env == "" {
		env = pkgfbr.EnvSandbox
	}
	seller, err := uc.sellerRepo.GetByID(ctx, in.SellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if seller == nil {
		return nil, fmt.Errorf("%w: vendedor %s", domain.ErrNotFound, in.SellerID)
	}
	cred := seller.CredentialsFor(env)
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: el vendedor no tiene token de %s", domain.ErrInvalidInput, env)
	}

	var query url.Values
	var body any
	if ep.Method == http.MethodGet {
		query = toQuery(in.Params)
	} else {
		params := in.Params
		if params == nil {
			params = map[string]any{}
		}
		body = params
	}

	start := time.Now()
	raw, err := uc.gw.Do(ctx, cred, ep.Method, ep.Path, query, body)
	elapsed := time.Since(start)
	if err != nil {
		uc.log.Warn().Err(err).Str("endpoint", in.Endpoint).Msg("prueba de API fallida")
		return nil, err
	}
	return &dto.ProbeResponse{
		Endpoint:    in.Endpoint,
		Method:      ep.Method,
		Path:        ep.Path,
		StatusCode:  raw.StatusCode,
		ContentType: raw.ContentType,
		Body:        raw.Body,
		DurationMs:  elapsed.Milliseconds(),
	}, nil
}

func toQuery(params map[string]any) url.Values {
	q := url.Values{}
	for k, v := range params {
		if v == nil {
			continue
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			continue
		}
		q.Set(k, s)
	}
	return q
}
