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

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/ledger"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/auditoria-fiscal/internal/infrastructure/pdf"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/postgres"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/auditoria-fiscal/internal/interfaces/http"
	"github.com/jhoicas/auditoria-fiscal/pkg/config"
	"github.com/jhoicas/auditoria-fiscal/pkg/logger"
)

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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := migrator.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	prom := metrics.NewPrometheus(true)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	extractor := ubl.NewExtractor(logger.WithComponent("extractor"))

	taxRule := ledger.TaxRule{Rate: cfg.Audit.TaxRate, Tolerance: cfg.Audit.TaxTolerance}
	bodyLimit := cfg.HTTP.BodyLimitMB * 1024 * 1024
	ledgerUC := audit.NewLedgerUseCase(
		spreadsheet.NewTableReader(int64(bodyLimit)),
		spreadsheet.NewLedgerWriter(),
		audit.NewValidator(taxRule),
		prom,
	)
	importUC := invoicing.NewImportUseCase(txRunner, extractor, prom, cfg.Upload.MaxFiles)
	queryUC := invoicing.NewQueryUseCase(invoiceRepo)
	exportUC := invoicing.NewExportUseCase(invoiceRepo, spreadsheet.NewInvoiceWriter())
	pdfUC := invoicing.NewPDFUseCase(invoiceRepo, infrapdf.NewMarotoPDFGenerator())

	if !cfg.JWT.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API queda abierta sin autenticación")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    bodyLimit,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Auditoría Fiscal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:  ledgerUC,
		ImportUC:  importUC,
		QueryUC:   queryUC,
		ExportUC:  exportUC,
		PDFUC:     pdfUC,
		Metrics:   prom.Handler(),
		JWTSecret: cfg.JWT.Secret,
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
