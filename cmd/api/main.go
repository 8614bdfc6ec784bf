package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/catalog"
	"github.com/jhoicas/fbr-invoicing/internal/application/editor"
	"github.com/jhoicas/fbr-invoicing/internal/application/party"
	"github.com/jhoicas/fbr-invoicing/internal/application/ports"
	"github.com/jhoicas/fbr-invoicing/internal/application/probe"
	"github.com/jhoicas/fbr-invoicing/internal/application/settings"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/bootstrap"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/cache"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
	infrapdf "github.com/jhoicas/fbr-invoicing/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/fbr-invoicing/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/fbr-invoicing/internal/interfaces/http"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
	"github.com/jhoicas/fbr-invoicing/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("fbr", cfg.FBR.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén local")
	}
	defer store.Close()

	// Redis opcional: cache de catálogos compartida y locks de envío/numeración distribuidos.
	var catalogCache ports.CatalogCache = cache.NewCatalogCache(cfg.Catalog.Size, cfg.Catalog.TTL)
	var locker ports.SubmissionLocker = cache.NewLocker()
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		catalogCache = infraredis.NewCatalogCache(rdb, cfg.App.Name+":")
		locker = infraredis.NewLocker(rdb, 0, log.Component("locker"))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis habilitado")
	}

	gateway := infrafbr.NewClient(cfg.FBR, log.Component("fbr"))

	catalogUC := catalog.NewCatalogUseCase(gateway, catalogCache, cfg.Catalog.TTL, log.Component("catalog"))
	partyUC := party.NewPartyUseCase(store.Sellers, store.Buyers, store.Invoices, gateway, locker, log.Component("party"))
	invoiceUC := billing.NewInvoiceUseCase(store.Invoices)
	submissionUC := billing.NewSubmissionUseCase(
		gateway, locker, store.Invoices, store.Sellers, store.Buyers, store.Logs, log.Component("submission"),
	)
	pdfUC := billing.NewPDFUseCase(store.Invoices, store.Sellers, store.Buyers, infrapdf.NewMarotoPDFGenerator())
	settingsUC := settings.NewSettingsUseCase(store.Settings, store.Logs, store, log.Component("settings"))
	probeUC := probe.NewProbeUseCase(gateway, store.Sellers, log.Component("probe"))
	authUC := auth.NewAuthUseCase(cfg.Auth.PassphraseHash, auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		ExpMinutes: cfg.Auth.Expiration,
		Issuer:     cfg.Auth.Issuer,
	})
	if !authUC.Enabled() {
		log.Warn().Msg("AUTH_JWT_SECRET vacío: API sin autenticación")
	}

	invoiceEditor := editor.NewEditor(editor.Deps{
		Catalogs: catalogUC,
		Resolver: editor.NewResolver(gateway),
		Sellers:  store.Sellers,
		Buyers:   store.Buyers,
		Invoices: store.Invoices,
		Settings: store.Settings,
		Logs:     store.Logs,
	}, editor.Config{
		Debounce:    cfg.Resolver.Debounce,
		AnnexureID:  cfg.FBR.AnnexureID,
		IdleTTL:     cfg.Resolver.SessionTTL,
		MaxSessions: cfg.Resolver.MaxSessions,
	}, log.Component("editor"))
	defer invoiceEditor.Close()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.FBR.Timeout*2 + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "FBR Digital Invoicing API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		PartyUC:      partyUC,
		CatalogUC:    catalogUC,
		Editor:       invoiceEditor,
		InvoiceUC:    invoiceUC,
		SubmissionUC: submissionUC,
		PDFUC:        pdfUC,
		SettingsUC:   settingsUC,
		ProbeUC:      probeUC,
		JWTSecret:    cfg.Auth.JWTSecret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
