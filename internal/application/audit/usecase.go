package audit

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// LedgerUseCase lee un libro tabular, lo valida y opcionalmente lo re-exporta.
type LedgerUseCase struct {
	reader    TableReader
	writer    LedgerWriter
	validator *Validator
	metrics   Metrics
}

// NewLedgerUseCase construye el caso de uso. metrics puede ser nil.
func NewLedgerUseCase(reader TableReader, writer LedgerWriter, validator *Validator, metrics Metrics) *LedgerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &LedgerUseCase{reader: reader, writer: writer, validator: validator, metrics: metrics}
}

// ValidateFile lee filename desde r y retorna las filas anotadas con su resumen.
func (uc *LedgerUseCase) ValidateFile(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	table, err := uc.reader.ReadTable(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", filename, err)
	}
	result, err := uc.validator.Validate(table)
	if err != nil {
		return nil, err
	}
	uc.metrics.ObserveLedger(result)

	log.Info().
		Str("file", filename).
		Int("rows", result.Summary.RowCount).
		Int("errors", result.Summary.RowsWithWarnings).
		Int("tax_checks", result.Summary.TaxChecks).
		Int("jumps", result.Summary.Jumps).
		Msg("libro validado")
	return result, nil
}

// ExportFile valida y escribe el libro consolidado en w.
func (uc *LedgerUseCase) ExportFile(ctx context.Context, filename string, r io.Reader, w io.Writer) (*Result, error) {
	result, err := uc.ValidateFile(ctx, filename, r)
	if err != nil {
		return nil, err
	}
	if err := uc.writer.WriteLedger(w, result); err != nil {
		return nil, fmt.Errorf("exportar libro: %w", err)
	}
	return result, nil
}
