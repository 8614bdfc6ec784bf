package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/application/editor"
	"github.com/jhoicas/fbr-invoicing/internal/application/party"
	"github.com/jhoicas/fbr-invoicing/internal/application/probe"
	"github.com/jhoicas/fbr-invoicing/internal/application/settings"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	PartyUC      *party.PartyUseCase
	CatalogUC    *catalog.CatalogUseCase
	Editor       *editor.Editor
	InvoiceUC    *billing.InvoiceUseCase
	SubmissionUC *billing.SubmissionUseCase
	PDFUC        *billing.PDFUseCase
	SettingsUC   *settings.SettingsUseCase
	ProbeUC      *probe.ProbeUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Rutas protegidas (Bearer Token si hay secreto configurado)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	partyHandler := NewPartyHandler(deps.PartyUC)
	sellers := protected.Group("/sellers")
	sellers.Get("/", partyHandler.ListSellers)
	sellers.Post("/", partyHandler.CreateSeller)
	sellers.Get("/:id", partyHandler.GetSeller)
	sellers.Put("/:id", partyHandler.UpdateSeller)
	sellers.Delete("/:id", partyHandler.DeleteSeller)
	sellers.Post("/:id/verify", partyHandler.VerifySeller)

	buyers := protected.Group("/buyers")
	buyers.Get("/", partyHandler.ListBuyers)
	buyers.Post("/", partyHandler.CreateBuyer)
	buyers.Post("/verify", partyHandler.VerifyBuyer)
	buyers.Get("/:id", partyHandler.GetBuyer)
	buyers.Put("/:id", partyHandler.UpdateBuyer)
	buyers.Delete("/:id", partyHandler.DeleteBuyer)

	catalogHandler := NewCatalogHandler(deps.CatalogUC, deps.PartyUC)
	catalogs := protected.Group("/catalogs")
	catalogs.Get("/", catalogHandler.Load)
	catalogs.Get("/uoms", catalogHandler.UOMs)
	catalogs.Get("/document-types", catalogHandler.DocumentTypes)
	catalogs.Get("/sro-item-codes", catalogHandler.SROItemCodes)

	editorHandler := NewEditorHandler(deps.Editor, deps.InvoiceUC, deps.SubmissionUC)
	sessions := protected.Group("/editor/sessions")
	sessions.Post("/", editorHandler.Open)
	sessions.Post("/from-invoice/:invoiceId", editorHandler.OpenDraft)
	sessions.Get("/:id", editorHandler.Get)
	sessions.Patch("/:id", editorHandler.SetHeader)
	sessions.Delete("/:id", editorHandler.Discard)
	sessions.Post("/:id/items", editorHandler.AddItem)
	sessions.Patch("/:id/items/:itemId", editorHandler.EditItem)
	sessions.Delete("/:id/items/:itemId", editorHandler.RemoveItem)
	sessions.Get("/:id/notices", editorHandler.Notices)
	sessions.Post("/:id/draft", editorHandler.SaveDraft)
	sessions.Post("/:id/submit", editorHandler.Submit)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.SubmissionUC, deps.PDFUC, deps.SettingsUC)
	invoices := protected.Group("/invoices")
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/submit", invoiceHandler.Submit)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/settings", settingsHandler.Get)
	protected.Patch("/settings", settingsHandler.Update)
	protected.Delete("/data", settingsHandler.ClearData)
	protected.Get("/logs", settingsHandler.Logs)
	protected.Delete("/logs", settingsHandler.ClearLogs)

	probeHandler := NewProbeHandler(deps.ProbeUC)
	protected.Get("/probe/endpoints", probeHandler.Endpoints)
	protected.Post("/probe", probeHandler.Run)
}
