package invoicing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

// Mensajes por archivo del reporte de importación.
const (
	msgNotXML          = "solo se aceptan archivos .xml"
	msgEmptyFile       = "archivo vacío"
	msgInvalidDocument = "estructura XML inválida o campos críticos ausentes"
	msgDuplicate       = "UUID ya existe"
)

// ImportUseCase importa un lote de documentos XML. Cada documento se procesa de forma
// secuencial e independiente: un fallo no detiene el resto del lote.
type ImportUseCase struct {
	txRunner  ImportTxRunner
	extractor DocumentExtractor
	metrics   Metrics
	maxFiles  int
}

// NewImportUseCase construye el caso de uso. maxFiles <= 0 desactiva el límite; metrics puede ser nil.
func NewImportUseCase(txRunner ImportTxRunner, extractor DocumentExtractor, metrics Metrics, maxFiles int) *ImportUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ImportUseCase{txRunner: txRunner, extractor: extractor, metrics: metrics, maxFiles: maxFiles}
}

// ImportDocuments procesa files y retorna el conteo agregado.
// Retorna domain.ErrEmptyBatch si no hay archivos y domain.ErrInvalidInput si se supera el límite.
func (uc *ImportUseCase) ImportDocuments(ctx context.Context, files []dto.UploadedFile) (*dto.ImportReport, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if uc.maxFiles > 0 && len(files) > uc.maxFiles {
		return nil, fmt.Errorf("%w: máximo %d archivos por carga, recibidos %d", domain.ErrInvalidInput, uc.maxFiles, len(files))
	}

	report := &dto.ImportReport{Details: make([]dto.ImportDetail, 0, len(files))}
	for _, f := range files {
		detail := uc.importOne(ctx, f)
		report.Add(detail)
		uc.metrics.ObserveImport(detail.Status)
	}

	log.Info().
		Int("uploaded", report.Uploaded).
		Int("skipped", report.Skipped).
		Int("errors", report.Errors).
		Msg("importación de documentos finalizada")
	return report, nil
}

func (uc *ImportUseCase) importOne(ctx context.Context, f dto.UploadedFile) dto.ImportDetail {
	detail := dto.ImportDetail{Filename: f.Filename}
	fail := func(msg string) dto.ImportDetail {
		detail.Status = dto.ImportStatusError
		detail.Message = msg
		return detail
	}

	if !strings.EqualFold(filepath.Ext(f.Filename), ".xml") {
		return fail(msgNotXML)
	}
	if len(bytes.TrimSpace(f.Content)) == 0 {
		return fail(msgEmptyFile)
	}

	inv, err := uc.extractor.Extract(f.Content)
	if err != nil {
		return fail(msgInvalidDocument)
	}

	err = uc.txRunner.RunImport(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		return invoiceRepo.Create(ctx, inv)
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("file", f.Filename).Str("document_id", entity.ShortID(inv.DocumentID)).Msg("documento omitido: ya existe")
		detail.Status = dto.ImportStatusSkipped
		detail.Message = msgDuplicate
		return detail
	case err != nil:
		var perr *domain.PersistenceError
		if !errors.As(err, &perr) {
			perr = &domain.PersistenceError{Op: "import", Err: err}
		}
		log.Error().Err(perr).Str("file", f.Filename).Str("document_id", entity.ShortID(inv.DocumentID)).Msg("no se pudo guardar el documento")
		return fail("error al guardar: " + err.Error())
	}

	log.Info().Str("file", f.Filename).Str("document_id", entity.ShortID(inv.DocumentID)).Int("lines", len(inv.Lines)).Msg("documento importado")
	detail.Status = dto.ImportStatusUploaded
	detail.Message = fmt.Sprintf("guardada con %d ítems", len(inv.Lines))
	if len(inv.Warnings) > 0 {
		detail.Message += " (advertencia: " + strings.Join(inv.Warnings, "; ") + ")"
	}
	return detail
}
