package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/settings"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// InvoiceHandler facturas guardadas: listado, detalle, envío y PDF.
type InvoiceHandler struct {
	invoices   *billing.InvoiceUseCase
	submission *billing.SubmissionUseCase
	pdf        *billing.PDFUseCase
	settings   *settings.SettingsUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(
	invoices *billing.InvoiceUseCase,
	submission *billing.SubmissionUseCase,
	pdf *billing.PDFUseCase,
	settingsUC *settings.SettingsUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, submission: submission, pdf: pdf, settings: settingsUC}
}

// List GET /api/invoices?status=&sellerId=&buyerId=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	list, err := h.invoices.List(c.Context(), repository.InvoiceFilter{Status: q.Status, SellerID: q.SellerID, BuyerID: q.BuyerID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.invoices.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit POST /api/invoices/:id/submit
// Sin ambiente en el cuerpo se usa el de las preferencias.
func (h *InvoiceHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	env := in.Environment
	if env == "" {
		s, err := h.settings.Get(c.Context())
		if err != nil {
			return respondError(c, err)
		}
		env = s.DefaultEnvironment
	}
	inv, err := h.submission.Submit(c.Context(), c.Params("id"), env)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// PDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	out, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(out)
}
