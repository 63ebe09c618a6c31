package invoicing

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

// ExportUseCase genera el consolidado de todos los documentos importados.
type ExportUseCase struct {
	invoiceRepo repository.InvoiceRepository
	writer      ExportWriter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(invoiceRepo repository.InvoiceRepository, writer ExportWriter) *ExportUseCase {
	return &ExportUseCase{invoiceRepo: invoiceRepo, writer: writer}
}

// Rows aplana todos los documentos (mismo orden que el listado).
func (uc *ExportUseCase) Rows(ctx context.Context) ([]dto.ExportRow, error) {
	invoices, err := uc.invoiceRepo.ListAllWithLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("exportar: listar facturas: %w", err)
	}
	rows := make([]dto.ExportRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, FlattenInvoice(inv)...)
	}
	return rows, nil
}

// Export escribe el consolidado en w y retorna el número de filas.
func (uc *ExportUseCase) Export(ctx context.Context, w io.Writer) (int, error) {
	rows, err := uc.Rows(ctx)
	if err != nil {
		return 0, err
	}
	if err := uc.writer.WriteInvoices(w, rows); err != nil {
		return 0, fmt.Errorf("exportar: escribir: %w", err)
	}
	return len(rows), nil
}
