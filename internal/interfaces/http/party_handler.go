package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/party"
	pkgfbr "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

// PartyHandler vendedores, compradores y verificación de registro.
type PartyHandler struct {
	uc *party.PartyUseCase
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *party.PartyUseCase) *PartyHandler {
	return &PartyHandler{uc: uc}
}

// ListSellers GET /api/sellers
func (h *PartyHandler) ListSellers(c *fiber.Ctx) error {
	list, err := h.uc.ListSellers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateSeller POST /api/sellers
func (h *PartyHandler) CreateSeller(c *fiber.Ctx) error {
	var in dto.SellerRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	s, err := h.uc.SaveSeller(c.Context(), "", in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// GetSeller GET /api/sellers/:id
func (h *PartyHandler) GetSeller(c *fiber.Ctx) error {
	s, err := h.uc.GetSeller(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// UpdateSeller PUT /api/sellers/:id
func (h *PartyHandler) UpdateSeller(c *fiber.Ctx) error {
	var in dto.SellerRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	s, err := h.uc.SaveSeller(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// DeleteSeller DELETE /api/sellers/:id
func (h *PartyHandler) DeleteSeller(c *fiber.Ctx) error {
	if err := h.uc.DeleteSeller(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifySeller POST /api/sellers/:id/verify?environment=sandbox
func (h *PartyHandler) VerifySeller(c *fiber.Ctx) error {
	env := c.Query("environment", pkgfbr.EnvSandbox)
	if !pkgfbr.ValidEnvironment(env) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "environment: oneof"})
	}
	s, err := h.uc.VerifySeller(c.Context(), c.Params("id"), env)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// ListBuyers GET /api/buyers
func (h *PartyHandler) ListBuyers(c *fiber.Ctx) error {
	list, err := h.uc.ListBuyers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateBuyer POST /api/buyers
func (h *PartyHandler) CreateBuyer(c *fiber.Ctx) error {
	var in dto.BuyerRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	b, err := h.uc.SaveBuyer(c.Context(), "", in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(b)
}

// GetBuyer GET /api/buyers/:id
func (h *PartyHandler) GetBuyer(c *fiber.Ctx) error {
	b, err := h.uc.GetBuyer(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(b)
}

// UpdateBuyer PUT /api/buyers/:id
func (h *PartyHandler) UpdateBuyer(c *fiber.Ctx) error {
	var in dto.BuyerRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	b, err := h.uc.SaveBuyer(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(b)
}

// DeleteBuyer DELETE /api/buyers/:id
func (h *PartyHandler) DeleteBuyer(c *fiber.Ctx) error {
	if err := h.uc.DeleteBuyer(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VerifyBuyer POST /api/buyers/verify
// Consulta estado y tipo de registro de un NTN con las credenciales del vendedor.
func (h *PartyHandler) VerifyBuyer(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	env := in.Environment
	if env == "" {
		env = pkgfbr.EnvSandbox
	}
	res, err := h.uc.VerifyWithSeller(c.Context(), in.SellerID, env, in.NTN)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
