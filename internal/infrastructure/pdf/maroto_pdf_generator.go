// Package pdf genera la representación gráfica de un documento fiscal importado
// (factura, nota crédito o nota débito) a partir de los datos extraídos del XML.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NIT        │  Tipo + Número + Fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RECEPTOR: Nombre + NIT/CC, forma y medio de pago           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Cant | Descripción | P.Unit | Subtotal           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Base / desglose de impuestos / TOTAL               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: CUFE + QR de consulta DIAN                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
)

// QRBaseURL consulta pública de documentos electrónicos por CUFE/CUDE.
const QRBaseURL = "https://catalogo-vpfe.dian.gov.co/document/searchqr?documentkey="

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var documentTitles = map[string]string{
	entity.DocumentTypeInvoice:    "FACTURA ELECTRÓNICA DE VENTA",
	entity.DocumentTypeCreditNote: "NOTA CRÉDITO ELECTRÓNICA",
	entity.DocumentTypeDebitNote:  "NOTA DÉBITO ELECTRÓNICA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa invoicing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ invoicing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(invoice), true).
		WithAuthor(nonEmpty(invoice.IssuerName, invoice.IssuerID), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice), separator(colorPrimary, 0.5), receptorRow(invoice), separator(colorPrimary, 0.3))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(invoice.Lines)...)
	m.AddRows(separator(colorPrimary, 0.3))
	m.AddRows(totalsRows(invoice)...)
	m.AddRows(line.NewRow(3), separator(colorGray, 0.3))
	m.AddRows(footerRows(invoice)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func title(invoice *entity.Invoice) string {
	if t, ok := documentTitles[invoice.DocumentType]; ok {
		return t
	}
	return "DOCUMENTO ELECTRÓNICO"
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(invoice *entity.Invoice) core.Row {
	fecha := "-"
	if invoice.IssueDate != nil {
		fecha = invoice.IssueDate.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(invoice.IssuerName, "Emisor sin nombre"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(invoice.IssuerID, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title(invoice), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.DisplayNumberOrShortID(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func receptorRow(invoice *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR / ADQUIRIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(invoice.ReceiverName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Forma de pago: %s   |   Medio de pago: %s",
				nonEmpty(invoice.ReceiverID, "-"),
				nonEmpty(invoice.PaymentForm.Label(invoice.PaymentFormCode), "-"),
				nonEmpty(invoice.PaymentMethodCode, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// itemColumn una columna de la tabla de ítems: encabezado, ancho en la grilla de 12 y
// cómo se obtiene el valor de cada línea.
type itemColumn struct {
	header string
	size   int
	align  align.Type
	value  func(entity.InvoiceLine) string
}

var itemColumns = []itemColumn{
	{"#", 1, align.Center, func(l entity.InvoiceLine) string { return fmt.Sprint(l.Position) }},
	{"Cant.", 1, align.Center, func(l entity.InvoiceLine) string { return l.Quantity.String() }},
	{"Descripción", 5, align.Left, func(l entity.InvoiceLine) string { return l.Description }},
	{"Precio Unit.", 2, align.Right, func(l entity.InvoiceLine) string { return "$" + formatMoney(l.UnitPrice) }},
	{"Subtotal", 3, align.Right, func(l entity.InvoiceLine) string { return "$" + formatMoney(l.LineTotal) }},
}

func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(itemColumns))
	for _, c := range itemColumns {
		cols = append(cols, col.New(c.size).Add(text.New(c.header, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(lines []entity.InvoiceLine) []core.Row {
	if len(lines) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(text.New(
			"El documento no reporta ítems.",
			props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray},
		)))}
	}
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		cols := make([]core.Col, 0, len(itemColumns))
		for _, c := range itemColumns {
			cols = append(cols, col.New(c.size).Add(text.New(c.value(l), props.Text{
				Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
			})))
		}
		rows = append(rows, row.New(7).Add(cols...))
	}
	return rows
}

// totalsRows base, una fila por impuesto del desglose y el total.
func totalsRows(invoice *entity.Invoice) []core.Row {
	pair := func(label, value string, grand bool) core.Row {
		lp := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		vp := props.Text{Size: 9, Align: align.Right, Right: 1}
		if grand {
			lp.Size, lp.Color = 10, colorPrimary
			vp.Size, vp.Color, vp.Style = 10, colorPrimary, fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, vp)),
		)
	}

	rows := []core.Row{pair("Base gravable:", "$"+formatMoney(invoice.BaseAmount), false)}
	for _, t := range invoice.TaxBreakdown {
		rows = append(rows, pair(t.Label+":", "$"+formatMoney(t.Amount), false))
	}
	if len(invoice.TaxBreakdown) == 0 {
		rows = append(rows, pair("Impuestos:", "$"+formatMoney(invoice.TaxAmount), false))
	}
	return append(rows, pair("TOTAL:", "$"+formatMoney(invoice.TotalAmount), true))
}

func footerRows(invoice *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN ELECTRÓNICA DIAN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("CUFE/CUDE:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 1}),
		)),
	}
	for _, chunk := range splitEvery(invoice.DocumentID, 80) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}

	rows = append(rows, row.New(3), row.New(40).Add(
		col.New(4).Add(code.NewQr(QRBaseURL+invoice.DocumentID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Escanea el código QR para consultar\neste documento en el portal DIAN.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Representación gráfica generada a partir del XML importado.", props.Text{
				Size: 7, Top: 22, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func separator(color *props.Color, thickness float64) core.Row {
	return line.NewRow(1, props.Line{Color: color, Thickness: thickness})
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formato colombiano con dos decimales: 1234567.5 -> "1.234.567,50".
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(entity.MoneyScale)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
