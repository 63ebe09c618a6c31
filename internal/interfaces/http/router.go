package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *audit.LedgerUseCase
	ImportUC  *invoicing.ImportUseCase
	QueryUC   *invoicing.QueryUseCase
	ExportUC  *invoicing.ExportUseCase
	PDFUC     *invoicing.PDFUseCase
	Metrics   http.Handler // opcional: GET /metrics
	JWTSecret string       // vacío = API abierta
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAuditor, jwt.RoleAdmin)

	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledger := api.Group("/ledger", anyRole)
	ledger.Post("/validate", ledgerHandler.Validate)
	ledger.Post("/validate/export", ledgerHandler.Export)

	invoiceHandler := NewInvoiceHandler(deps.ImportUC, deps.QueryUC, deps.ExportUC, deps.PDFUC)
	invoices := api.Group("/invoices", anyRole)
	invoices.Post("/upload", invoiceHandler.Upload)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/export", invoiceHandler.Export)
	invoices.Get("/:documentId", invoiceHandler.GetByDocumentID)
	invoices.Get("/:documentId/pdf", invoiceHandler.DownloadPDF)
	invoices.Delete("/:documentId", RequireRole(jwt.RoleAdmin), invoiceHandler.Delete)
}
