package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
)

// AuthHandler canje de la frase del operador por un token.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Token POST /api/auth/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	if !h.uc.Enabled() {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "AUTH_DISABLED", Message: "autenticación deshabilitada"})
	}
	var in dto.TokenRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.uc.IssueToken(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
