package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/party"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// CatalogHandler catálogos de referencia del gateway con las credenciales de un vendedor.
type CatalogHandler struct {
	catalogs *catalog.CatalogUseCase
	parties  *party.PartyUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalogs *catalog.CatalogUseCase, parties *party.PartyUseCase) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs, parties: parties}
}

// credentials arma las credenciales a partir de ?sellerId=&environment=.
// Sin vendedor se usan credenciales vacías y los catálogos degradan a sus valores por defecto.
func (h *CatalogHandler) credentials(c *fiber.Ctx) (entity.Credentials, error) {
	env := c.Query("environment", pkgfbr.EnvSandbox)
	sellerID := c.Query("sellerId")
	if sellerID == "" {
		return entity.Credentials{Environment: env}, nil
	}
	s, err := h.parties.GetSeller(c.Context(), sellerID)
	if err != nil {
		return entity.Credentials{}, err
	}
	return s.CredentialsFor(env), nil
}

// Load GET /api/catalogs
// HS codes, tipos de transacción y provincias; los fallos se informan en "warnings".
func (h *CatalogHandler) Load(c *fiber.Ctx) error {
	cred, err := h.credentials(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.catalogs.Load(c.Context(), cred)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UOMs GET /api/catalogs/uoms
func (h *CatalogHandler) UOMs(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, cred entity.Credentials) (any, error) {
		return h.catalogs.UOMs(ctx, cred)
	})
}

// DocumentTypes GET /api/catalogs/document-types
func (h *CatalogHandler) DocumentTypes(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, cred entity.Credentials) (any, error) {
		return h.catalogs.DocumentTypes(ctx, cred)
	})
}

// SROItemCodes GET /api/catalogs/sro-item-codes
func (h *CatalogHandler) SROItemCodes(c *fiber.Ctx) error {
	return h.list(c, func(ctx context.Context, cred entity.Credentials) (any, error) {
		return h.catalogs.SROItemCodes(ctx, cred)
	})
}

func (h *CatalogHandler) list(c *fiber.Ctx, fetch func(context.Context, entity.Credentials) (any, error)) error {
	cred, err := h.credentials(c)
	if err != nil {
		return respondError(c, err)
	}
	if cred.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere un vendedor con token para el ambiente"})
	}
	out, err := fetch(c.Context(), cred)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
