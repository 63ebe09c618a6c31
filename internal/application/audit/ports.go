package audit

import (
	"context"
	"io"
)

// TableReader lee una fuente tabular (xlsx, csv) a una Table. El formato se decide por el
// nombre del archivo; un formato no soportado retorna domain.ErrInvalidInput.
type TableReader interface {
	ReadTable(ctx context.Context, filename string, r io.Reader) (Table, error)
}

// LedgerWriter escribe el resultado consolidado (columnas originales más las derivadas).
type LedgerWriter interface {
	WriteLedger(w io.Writer, result *Result) error
}

// Metrics recibe los veredictos de cada validación.
type Metrics interface {
	ObserveLedger(result *Result)
}

// NopMetrics implementación vacía para CLI y tests.
type NopMetrics struct{}

func (NopMetrics) ObserveLedger(*Result) {}
