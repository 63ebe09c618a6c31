package invoicing

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// PDFUseCase genera la representación gráfica (PDF) de un documento importado.
type PDFUseCase struct {
	query     *QueryUseCase
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{query: NewQueryUseCase(invoiceRepo), generator: generator}
}

// DownloadInvoicePDF recupera el documento con sus ítems y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el documento no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, documentID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.query.load(ctx, documentID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("factura_%s.pdf", unsafeFilename.ReplaceAllString(inv.DisplayNumberOrShortID(), "_"))
	return pdfBytes, filename, nil
}
