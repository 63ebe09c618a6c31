// Package spreadsheet lee libros tabulares (xlsx, csv) y escribe los consolidados xlsx
// de la validación de libros y de la exportación de facturas.
package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
)

// Extensiones soportadas por TableReader.
const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

// TableReader implementa audit.TableReader decidiendo el formato por la extensión.
type TableReader struct {
	maxBytes int64
}

var _ audit.TableReader = (*TableReader)(nil)

// NewTableReader construye el lector. maxBytes <= 0 no limita el tamaño leído.
func NewTableReader(maxBytes int64) *TableReader {
	return &TableReader{maxBytes: maxBytes}
}

// Supported indica si el nombre de archivo tiene una extensión soportada.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ExtXLSX, ExtCSV:
		return true
	}
	return false
}

// ReadTable lee la primera hoja (xlsx) o el archivo completo (csv).
func (t *TableReader) ReadTable(ctx context.Context, filename string, r io.Reader) (audit.Table, error) {
	if err := ctx.Err(); err != nil {
		return audit.Table{}, err
	}
	if t.maxBytes > 0 {
		r = io.LimitReader(r, t.maxBytes)
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ExtXLSX:
		return readXLSX(r)
	case ExtCSV:
		return readCSV(r)
	default:
		return audit.Table{}, fmt.Errorf("%w: formato no soportado %q (solo .xlsx o .csv)", domain.ErrInvalidInput, ext)
	}
}

// buildTable arma la tabla a partir del encabezado y las filas de celdas ya tipadas.
// Encabezados vacíos se nombran "Columna N"; repetidos reciben sufijo "_2", "_3"...
func buildTable(header []string, rows [][]any) audit.Table {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Columna " + strconv.Itoa(i+1)
		}
		seen[h]++
		if n := seen[h]; n > 1 {
			h = h + "_" + strconv.Itoa(n)
		}
		columns[i] = h
	}

	table := audit.Table{Columns: columns, Rows: make([]audit.Row, 0, len(rows))}
	for _, cells := range rows {
		row := make(audit.Row, len(columns))
		for i, col := range columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = nil
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
