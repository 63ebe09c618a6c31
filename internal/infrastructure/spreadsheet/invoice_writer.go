package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
)

// InvoiceSheet hoja de la exportación de facturas.
const InvoiceSheet = "Detalle Facturas"

// InvoiceHeaders columnas de la exportación, en el orden de dto.ExportRow.
var InvoiceHeaders = []string{
	"Número Factura",
	"Fecha Emisión",
	"NIT Emisor",
	"Nombre Emisor",
	"NIT Receptor",
	"Nombre Receptor",
	"Forma de Pago",
	"Medio de Pago",
	"Impuestos",
	"Total Factura",
	"Descripción Ítem",
	"Cantidad",
	"Valor Unitario",
	"Total Ítem",
	"CUFE",
}

// InvoiceWriter implementa invoicing.ExportWriter en xlsx.
type InvoiceWriter struct{}

var _ invoicing.ExportWriter = InvoiceWriter{}

// NewInvoiceWriter construye el escritor.
func NewInvoiceWriter() InvoiceWriter { return InvoiceWriter{} }

// WriteInvoices escribe una fila por ítem con la cabecera de la factura repetida.
func (InvoiceWriter) WriteInvoices(w io.Writer, rows []dto.ExportRow) error {
	f, sw, styles, err := newSheet(InvoiceSheet, InvoiceHeaders, 18)
	if err != nil {
		return err
	}
	money := func(v float64) excelize.Cell { return excelize.Cell{StyleID: styles.money, Value: v} }
	for i, r := range rows {
		cells := []any{
			r.DisplayNumber,
			r.IssueDate,
			r.IssuerID,
			r.IssuerName,
			r.ReceiverID,
			r.ReceiverName,
			r.PaymentForm,
			r.PaymentMethod,
			r.TaxBreakdown,
			money(r.InvoiceTotal.InexactFloat64()),
			r.ItemDescription,
			r.ItemQuantity.InexactFloat64(),
			money(r.ItemUnitPrice.InexactFloat64()),
			money(r.ItemLineTotal.InexactFloat64()),
			r.DocumentID,
		}
		if err := sw.SetRow(rowCell(i+2), cells); err != nil {
			f.Close()
			return fmt.Errorf("escribir fila %d: %w", i+2, err)
		}
	}
	return finish(f, sw, w)
}
