package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/auditoria-fiscal/internal/application/audit"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV lee un csv con encabezado. Quita el BOM, decodifica Windows-1252 si el contenido
// no es UTF-8 válido y detecta el separador (";" o ",") en la primera línea.
func readCSV(r io.Reader) (audit.Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return audit.Table{}, fmt.Errorf("leer csv: %w", err)
	}
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(content)
		if err != nil {
			return audit.Table{}, fmt.Errorf("%w: codificación no soportada: %v", domain.ErrInvalidInput, err)
		}
		content = decoded
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return audit.Table{}, nil
	}

	cr := csv.NewReader(bytes.NewReader(content))
	cr.Comma = detectDelimiter(content)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return audit.Table{}, fmt.Errorf("%w: csv inválido: %v", domain.ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return audit.Table{}, nil
	}

	rows := make([][]any, 0, len(records)-1)
	for _, rec := range records[1:] {
		cells := make([]any, len(rec))
		for i, v := range rec {
			if v = strings.TrimSpace(v); v != "" {
				cells[i] = v
			}
		}
		rows = append(rows, cells)
	}
	return buildTable(records[0], rows), nil
}

func detectDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
