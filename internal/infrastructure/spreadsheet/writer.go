package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX tipo MIME de los archivos generados.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Sheet1"

// sheetStyles estilos compartidos por las hojas generadas.
type sheetStyles struct {
	header int
	date   int
	money  int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E78"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return s, fmt.Errorf("estilo de encabezado: %w", err)
	}
	dateFmt := "dd/mm/yyyy"
	s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return s, fmt.Errorf("estilo de fecha: %w", err)
	}
	s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return s, fmt.Errorf("estilo de moneda: %w", err)
	}
	return s, nil
}

// newSheet crea el libro con una sola hoja llamada name y devuelve un StreamWriter con el
// encabezado ya escrito y congelado.
func newSheet(name string, headers []string, width float64) (*excelize.File, *excelize.StreamWriter, sheetStyles, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		f.Close()
		return nil, nil, sheetStyles{}, fmt.Errorf("renombrar hoja: %w", err)
	}
	styles, err := newSheetStyles(f)
	if err != nil {
		f.Close()
		return nil, nil, sheetStyles{}, err
	}
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		f.Close()
		return nil, nil, sheetStyles{}, fmt.Errorf("stream writer: %w", err)
	}
	if len(headers) > 0 {
		if err := sw.SetColWidth(1, len(headers), width); err != nil {
			f.Close()
			return nil, nil, sheetStyles{}, err
		}
	}
	if err := sw.SetPanes(&excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, nil, sheetStyles{}, err
	}
	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = excelize.Cell{StyleID: styles.header, Value: h}
	}
	if err := sw.SetRow("A1", cells); err != nil {
		f.Close()
		return nil, nil, sheetStyles{}, fmt.Errorf("escribir encabezado: %w", err)
	}
	return f, sw, styles, nil
}

// finish vacía el stream y escribe el libro en w.
func finish(f *excelize.File, sw *excelize.StreamWriter, w io.Writer) error {
	defer f.Close()
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("escribir xlsx: %w", err)
	}
	return nil
}

func rowCell(row int) string {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	return cell
}
