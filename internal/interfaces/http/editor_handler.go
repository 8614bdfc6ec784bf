package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/application/editor"
	"github.com/jhoicas/fbr-invoicing/internal/domain/lineitem"
)

// EditorHandler sesiones de edición de borradores.
type EditorHandler struct {
	editor     *editor.Editor
	invoices   *billing.InvoiceUseCase
	submission *billing.SubmissionUseCase
}

// NewEditorHandler construye el handler.
func NewEditorHandler(ed *editor.Editor, invoices *billing.InvoiceUseCase, submission *billing.SubmissionUseCase) *EditorHandler {
	return &EditorHandler{editor: ed, invoices: invoices, submission: submission}
}

func (h *EditorHandler) session(c *fiber.Ctx) (*editor.Session, error) {
	return h.editor.Get(c.Params("id"))
}

// Open POST /api/editor/sessions
func (h *EditorHandler) Open(c *fiber.Ctx) error {
	s, err := h.editor.Open(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

// OpenDraft POST /api/editor/sessions/from-invoice/:invoiceId
func (h *EditorHandler) OpenDraft(c *fiber.Ctx) error {
	s, err := h.editor.OpenDraft(c.Context(), c.Params("invoiceId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.Snapshot())
}

// Get GET /api/editor/sessions/:id
func (h *EditorHandler) Get(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Snapshot())
}

// Discard DELETE /api/editor/sessions/:id
func (h *EditorHandler) Discard(c *fiber.Ctx) error {
	if err := h.editor.Discard(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetHeader PATCH /api/editor/sessions/:id
func (h *EditorHandler) SetHeader(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.HeaderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	view, err := s.SetHeader(c.Context(), editor.HeaderInput{
		Type:        in.InvoiceType,
		Date:        in.InvoiceDate,
		SellerID:    in.SellerID,
		BuyerID:     in.BuyerID,
		ScenarioID:  in.ScenarioID,
		Currency:    in.Currency,
		Environment: in.Environment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

// AddItem POST /api/editor/sessions/:id/items
func (h *EditorHandler) AddItem(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	item, err := s.AddItem(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// EditItem PATCH /api/editor/sessions/:id/items/:itemId
func (h *EditorHandler) EditItem(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.ItemEditRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	// El id queda capturado por la resolución diferida; fiber reutiliza el buffer de la ruta.
	item, err := s.Edit(utils.CopyString(c.Params("itemId")), lineitem.Change{Field: lineitem.Field(in.Field), Value: in.Value})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// RemoveItem DELETE /api/editor/sessions/:id/items/:itemId
func (h *EditorHandler) RemoveItem(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.RemoveItem(utils.CopyString(c.Params("itemId"))); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Notices GET /api/editor/sessions/:id/notices
// Entrega y vacía los avisos acumulados.
func (h *EditorHandler) Notices(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s.Notices())
}

// SaveDraft POST /api/editor/sessions/:id/draft
func (h *EditorHandler) SaveDraft(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	saved, err := h.invoices.SaveDraft(c.Context(), s.Draft())
	if err != nil {
		return respondError(c, err)
	}
	s.Adopt(saved)
	return c.JSON(s.Snapshot())
}

// Submit POST /api/editor/sessions/:id/submit
// Guarda el borrador y lo envía al ambiente de la sesión. Si el gateway lo rechaza,
// la sesión adopta el detalle del error guardado.
func (h *EditorHandler) Submit(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return respondError(c, err)
	}
	saved, err := h.invoices.SaveDraft(c.Context(), s.Draft())
	if err != nil {
		return respondError(c, err)
	}
	s.Adopt(saved)

	inv, err := h.submission.Submit(c.Context(), saved.ID, s.Environment())
	if err != nil {
		if stored, gerr := h.invoices.Get(c.Context(), saved.ID); gerr == nil {
			s.Adopt(stored)
		}
		return respondError(c, err)
	}
	s.Adopt(inv)
	return c.JSON(s.Snapshot())
}
