package probe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports/portstest"
	"github.com/jhoicas/fbr-invoicing/internal/application/probe"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/kvstore"
)

type call struct {
	method, path string
	query        url.Values
	body         any
}

func setup(t *testing.T) (*probe.ProbeUseCase, *call) {
	t.Helper()
	store := kvstore.NewStore(kvstore.NewMemoryBackend())
	require.NoError(t, store.Sellers.Save(context.Background(), &entity.Seller{
		ID: "s1", NTN: "1234567", BusinessName: "Acme", Province: "PUNJAB", SandboxToken: "tok",
	}))
	got := &call{}
	gw := &portstest.Gateway{
		DoFn: func(_ context.Context, method, path string, query url.Values, body any) (*ports.RawResponse, error) {
			*got = call{method: method, path: path, query: query, body: body}
			return &ports.RawResponse{StatusCode: http.StatusOK, ContentType: "application/json", Body: json.RawMessage(`[]`)}, nil
		},
	}
	return probe.NewProbeUseCase(gw, store.Sellers, zerolog.Nop()), got
}

func TestRun_GetEnviaParametrosEnQuery(t *testing.T) {
	uc, got := setup(t)

	res, err := uc.Run(context.Background(), dto.ProbeRequest{
		SellerID: "s1", Endpoint: "sale_type_to_rate",
		Params: map[string]any{"date": "04-Feb-2025", "transTypeId": 18, "originationSupplier": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/pdi/v2/SaleTypeToRate", res.Path)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "18", got.query.Get("transTypeId"))
	assert.Nil(t, got.body)
}

func TestRun_PostEnviaCuerpo(t *testing.T) {
	uc, got := setup(t)

	_, err := uc.Run(context.Background(), dto.ProbeRequest{
		SellerID: "s1", Endpoint: "statl", Params: map[string]any{"regno": "1234567"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, map[string]any{"regno": "1234567"}, got.body)
}

func TestRun_EndpointDesconocido(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Run(context.Background(), dto.ProbeRequest{SellerID: "s1", Endpoint: "/etc/passwd"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRun_SinTokenDeProduccion(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Run(context.Background(), dto.ProbeRequest{SellerID: "s1", Endpoint: "provinces", Environment: "production"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRun_VendedorInexistente(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.Run(context.Background(), dto.ProbeRequest{SellerID: "nope", Endpoint: "provinces"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEndpoints_Ordenados(t *testing.T) {
	list := probe.Endpoints()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}
}
