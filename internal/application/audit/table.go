// Package audit orquesta la validación de libros tabulares (Excel/CSV) de facturas:
// columnas obligatorias, coerción de valores, base gravable, verificación de IVA y
// control de consecutivos.
package audit

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/auditoria-fiscal/internal/domain/ledger"
)

// Row fila cruda de la fuente tabular: encabezado original -> valor sin tipar
// (string, número, time.Time o nil).
type Row map[string]any

// Table entrada tabular con el orden original de columnas.
type Table struct {
	Columns []string
	Rows    []Row
}

// Record fila enriquecida por la validación.
type Record struct {
	RowNumber       int // posición 1-based en la fuente (sin contar encabezado)
	Values          Row
	Date            *time.Time
	Folio           string
	Type            string
	Total           decimal.Decimal
	Tax             decimal.Decimal
	Base            decimal.Decimal
	FolioToken      int64
	TaxRatio        *decimal.Decimal
	TaxVerdict      ledger.TaxVerdict
	SequenceDelta   *int64
	SequenceVerdict ledger.SequenceVerdict
	Warnings        []string
}

// Summary totales del lote.
// RowsWithWarnings cuenta filas con al menos un valor no interpretable (fecha, total o impuesto).
type Summary struct {
	RowCount         int
	RowsWithWarnings int
	TaxChecks        int
	Duplicates       int
	Jumps            int
	Anomalies        int
}

// Result salida de Validate: registros en orden de evaluación (tipo, fecha, token).
type Result struct {
	Columns []string
	Records []Record
	Summary Summary
}

// Claves canónicas de las columnas obligatorias.
const (
	ColumnDate  = "date"
	ColumnFolio = "folio"
	ColumnType  = "type"
	ColumnTotal = "total"
	ColumnTax   = "tax"
)

type requiredColumn struct {
	key     string
	label   string
	aliases []string
}

// Se aceptan encabezados en español (los del libro original) o en inglés.
var requiredColumns = []requiredColumn{
	{key: ColumnDate, label: "Fecha", aliases: []string{"fecha", "date"}},
	{key: ColumnFolio, label: "Folio", aliases: []string{"folio"}},
	{key: ColumnType, label: "Tipo", aliases: []string{"tipo", "type"}},
	{key: ColumnTotal, label: "Total", aliases: []string{"total"}},
	{key: ColumnTax, label: "Impuesto", aliases: []string{"impuesto", "tax", "iva"}},
}

// normalizeHeader pasa a minúsculas, quita tildes y espacios: " Impuésto " -> "impuesto".
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, h)
	if err != nil {
		s = h
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// resolveColumns asocia cada columna obligatoria con el encabezado original.
// Retorna los nombres (etiquetas) de las faltantes.
func resolveColumns(columns []string) (map[string]string, []string) {
	byNorm := make(map[string]string, len(columns))
	for _, c := range columns {
		n := normalizeHeader(c)
		if _, dup := byNorm[n]; !dup {
			byNorm[n] = c
		}
	}
	resolved := make(map[string]string, len(requiredColumns))
	var missing []string
	for _, rc := range requiredColumns {
		found := false
		for _, alias := range rc.aliases {
			if orig, ok := byNorm[alias]; ok {
				resolved[rc.key] = orig
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, rc.label)
		}
	}
	return resolved, missing
}
