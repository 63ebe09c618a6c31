package invoicing

import (
	"context"
	"io"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

// ImportTxRunner ejecuta fn en una transacción; cabecera y líneas se confirman juntas.
type ImportTxRunner interface {
	RunImport(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// DocumentExtractor convierte el XML de un documento fiscal en entidad. Un fallo retorna un
// error que envuelve domain.ErrExtraction.
type DocumentExtractor interface {
	Extract(payload []byte) (*entity.Invoice, error)
}

// ExportWriter escribe las filas aplanadas (xlsx "Detalle Facturas").
type ExportWriter interface {
	WriteInvoices(w io.Writer, rows []dto.ExportRow) error
}

// InvoicePDFGenerator representación gráfica de un documento almacenado.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

// Metrics contadores de importación por estado (uploaded, skipped, error).
type Metrics interface {
	ObserveImport(status string)
}

// NopMetrics implementación vacía para CLI y tests.
type NopMetrics struct{}

func (NopMetrics) ObserveImport(string) {}
