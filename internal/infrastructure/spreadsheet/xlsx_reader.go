package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
)

// Formatos de número integrados de Excel que representan fechas u horas.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func readXLSX(r io.Reader) (audit.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return audit.Table{}, fmt.Errorf("%w: xlsx ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return audit.Table{}, fmt.Errorf("%w: el libro no tiene hojas", domain.ErrInvalidInput)
	}
	sheet := sheets[0]

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return audit.Table{}, fmt.Errorf("leer hoja %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return audit.Table{}, nil
	}

	cr := cellReader{f: f, sheet: sheet, dateStyles: make(map[int]bool)}
	rows := make([][]any, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		typed := make([]any, len(cells))
		for j, v := range cells {
			typed[j] = cr.value(j+1, i+2, v)
		}
		rows = append(rows, typed)
	}
	return buildTable(raw[0], rows), nil
}

// cellReader tipa celdas crudas: fechas a time.Time, números a float64, el resto texto.
type cellReader struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool // cache por id de estilo
}

func (c *cellReader) value(col, row int, raw string) any {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	switch typ, _ := c.f.GetCellType(c.sheet, cell); typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		// texto que parece número (folios con ceros a la izquierda, resultados t="str")
		return raw
	}
	if c.isDateStyled(cell) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return t
		}
	}
	return n
}

func (c *cellReader) isDateStyled(cell string) bool {
	id, err := c.f.GetCellStyle(c.sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := c.dateStyles[id]; ok {
		return v
	}
	isDate := false
	if style, err := c.f.GetStyle(id); err == nil && style != nil {
		isDate = builtinDateFormats[style.NumFmt]
		if style.CustomNumFmt != nil {
			isDate = isDateFormat(*style.CustomNumFmt)
		}
	}
	c.dateStyles[id] = isDate
	return isDate
}

// isDateFormat detecta un formato personalizado de fecha ("dd/mm/yyyy", "yyyy-mm-dd"),
// ignorando literales entre comillas y secciones entre corchetes.
func isDateFormat(format string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(format) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(r)
		}
	}
	s := b.String()
	return strings.ContainsAny(s, "dy") || strings.Contains(s, "mmm")
}
