package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/probe"
)

// ProbeHandler consola de pruebas del gateway.
type ProbeHandler struct {
	uc *probe.ProbeUseCase
}

// NewProbeHandler construye el handler.
func NewProbeHandler(uc *probe.ProbeUseCase) *ProbeHandler {
	return &ProbeHandler{uc: uc}
}

// Endpoints GET /api/probe/endpoints
func (h *ProbeHandler) Endpoints(c *fiber.Ctx) error {
	return c.JSON(probe.Endpoints())
}

// Run POST /api/probe
func (h *ProbeHandler) Run(c *fiber.Ctx) error {
	var in dto.ProbeRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	res, err := h.uc.Run(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
