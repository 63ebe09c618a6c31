package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
)

// Hoja y columnas derivadas del libro validado.
const (
	LedgerSheet = "Consolidado"

	ColumnBase     = "Base"
	ColumnFolioNum = "Folio_Num"
	ColumnVerif    = "Verif"
	ColumnDiff     = "Diff"
	ColumnComcon   = "COMCON"
)

var derivedColumns = []string{ColumnBase, ColumnFolioNum, ColumnVerif, ColumnDiff, ColumnComcon}

// LedgerWriter implementa audit.LedgerWriter en xlsx.
type LedgerWriter struct{}

var _ audit.LedgerWriter = LedgerWriter{}

// NewLedgerWriter construye el escritor.
func NewLedgerWriter() LedgerWriter { return LedgerWriter{} }

// WriteLedger escribe las columnas originales (sin las derivadas de una validación previa)
// seguidas de Base, Folio_Num, Verif, Diff y COMCON, en el orden de evaluación.
func (LedgerWriter) WriteLedger(w io.Writer, result *audit.Result) error {
	original := originalColumns(result.Columns)
	headers := append(append([]string{}, original...), derivedColumns...)

	f, sw, styles, err := newSheet(LedgerSheet, headers, 16)
	if err != nil {
		return err
	}
	for i, rec := range result.Records {
		cells := make([]any, 0, len(headers))
		for _, col := range original {
			cells = append(cells, styledValue(rec.Values[col], styles))
		}
		var diff any
		if rec.SequenceDelta != nil {
			diff = *rec.SequenceDelta
		}
		cells = append(cells,
			excelize.Cell{StyleID: styles.money, Value: rec.Base.InexactFloat64()},
			rec.FolioToken,
			rec.TaxVerdict.String(),
			diff,
			rec.SequenceVerdict.String(),
		)
		if err := sw.SetRow(rowCell(i+2), cells); err != nil {
			f.Close()
			return fmt.Errorf("escribir fila %d: %w", rec.RowNumber, err)
		}
	}
	return finish(f, sw, w)
}

func originalColumns(columns []string) []string {
	derived := make(map[string]bool, len(derivedColumns))
	for _, c := range derivedColumns {
		derived[c] = true
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !derived[c] {
			out = append(out, c)
		}
	}
	return out
}

func styledValue(v any, styles sheetStyles) any {
	switch x := v.(type) {
	case nil:
		return nil
	case time.Time:
		return excelize.Cell{StyleID: styles.date, Value: x}
	case *time.Time:
		if x == nil {
			return nil
		}
		return excelize.Cell{StyleID: styles.date, Value: *x}
	case decimal.Decimal:
		return x.InexactFloat64()
	}
	return v
}
