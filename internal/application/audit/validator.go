package audit

import (
	"fmt"

	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/ledger"
)

// Validator aplica las reglas de auditoría a un lote tabular. No tiene estado mutable ni
// toca almacenamiento; es seguro reutilizarlo entre peticiones.
type Validator struct {
	rule ledger.TaxRule
}

// NewValidator construye el validador con la regla de impuesto indicada.
func NewValidator(rule ledger.TaxRule) *Validator {
	return &Validator{rule: rule}
}

// Validate valida columnas, descarta filas vacías, tipa los valores, calcula Base y token del
// folio, evalúa IVA por fila y consecutivos por tipo.
// Retorna *domain.SchemaError si faltan columnas obligatorias (sin procesamiento parcial).
func (v *Validator) Validate(table Table) (*Result, error) {
	cols, missing := resolveColumns(table.Columns)
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	records := make([]Record, 0, len(table.Rows))
	for i, row := range table.Rows {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, v.buildRecord(i+1, row, cols))
	}

	items := make([]ledger.SequenceItem, len(records))
	for i := range records {
		items[i] = ledger.SequenceItem{Type: records[i].Type, Date: records[i].Date, Token: records[i].FolioToken}
	}
	results, order := ledger.EvaluateSequence(items)

	out := &Result{Columns: table.Columns, Records: make([]Record, 0, len(records))}
	for _, idx := range order {
		rec := records[idx]
		rec.SequenceDelta = results[idx].Delta
		rec.SequenceVerdict = results[idx].Verdict
		out.Records = append(out.Records, rec)
	}
	out.Summary = summarize(out.Records)
	return out, nil
}

func (v *Validator) buildRecord(rowNumber int, row Row, cols map[string]string) Record {
	rec := Record{
		RowNumber: rowNumber,
		Values:    row,
		Folio:     coerceString(row[cols[ColumnFolio]]),
		Type:      coerceString(row[cols[ColumnType]]),
	}

	date, ok := coerceDate(row[cols[ColumnDate]])
	if !ok {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s no interpretable: %v", cols[ColumnDate], row[cols[ColumnDate]]))
	}
	rec.Date = date

	total, ok := coerceDecimal(row[cols[ColumnTotal]])
	if !ok {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s no numérico: %v (se usa 0)", cols[ColumnTotal], row[cols[ColumnTotal]]))
	}
	tax, ok := coerceDecimal(row[cols[ColumnTax]])
	if !ok {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("%s no numérico: %v (se usa 0)", cols[ColumnTax], row[cols[ColumnTax]]))
	}
	rec.Total = total
	rec.Tax = tax
	rec.Base = total.Sub(tax)
	rec.FolioToken = ledger.ExtractFolioToken(rec.Folio)
	if ratio, ok := v.rule.Ratio(rec.Base, rec.Tax); ok {
		rec.TaxRatio = &ratio
	}
	rec.TaxVerdict = v.rule.Evaluate(rec.Base, rec.Tax)
	return rec
}

// isEmptyRow: todas las celdas vacías (en cualquier columna, no sólo las obligatorias).
func isEmptyRow(row Row) bool {
	for _, val := range row {
		if !isBlank(val) {
			return false
		}
	}
	return true
}

func summarize(records []Record) Summary {
	s := Summary{RowCount: len(records)}
	for _, r := range records {
		if len(r.Warnings) > 0 {
			s.RowsWithWarnings++
		}
		if r.TaxVerdict == ledger.TaxCheck {
			s.TaxChecks++
		}
		switch r.SequenceVerdict {
		case ledger.SequenceDuplicate:
			s.Duplicates++
		case ledger.SequenceJump:
			s.Jumps++
		case ledger.SequenceAnomaly:
			s.Anomalies++
		}
	}
	return s
}
