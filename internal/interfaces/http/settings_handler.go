package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/settings"
)

// SettingsHandler preferencias, registro de actividad y borrado de datos.
type SettingsHandler struct {
	uc *settings.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get GET /api/settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// Update PATCH /api/settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	s, err := h.uc.Update(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// ClearData DELETE /api/data
func (h *SettingsHandler) ClearData(c *fiber.Ctx) error {
	if err := h.uc.ClearData(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Logs GET /api/logs?limit=100
func (h *SettingsHandler) Logs(c *fiber.Ctx) error {
	list, err := h.uc.Logs(c.Context(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ClearLogs DELETE /api/logs
func (h *SettingsHandler) ClearLogs(c *fiber.Ctx) error {
	if err := h.uc.ClearLogs(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
