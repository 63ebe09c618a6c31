package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func formatDate(inv *entity.Invoice) string {
	if inv.IssueDate == nil {
		return ""
	}
	return inv.IssueDate.Format(dateLayout)
}

// ToInvoiceResponse convierte la entidad; withLines incluye los ítems.
func ToInvoiceResponse(inv *entity.Invoice, withLines bool) dto.InvoiceResponse {
	out := dto.InvoiceResponse{
		DocumentID:        inv.DocumentID,
		DocumentType:      inv.DocumentType,
		DisplayNumber:     inv.DisplayNumberOrShortID(),
		IssuerID:          inv.IssuerID,
		IssuerName:        inv.IssuerName,
		ReceiverID:        inv.ReceiverID,
		ReceiverName:      inv.ReceiverName,
		IssueDate:         formatDate(inv),
		TotalAmount:       inv.TotalAmount,
		TaxAmount:         inv.TaxAmount,
		BaseAmount:        inv.BaseAmount,
		PaymentForm:       inv.PaymentForm.Label(inv.PaymentFormCode),
		PaymentFormCode:   inv.PaymentFormCode,
		PaymentMethodCode: inv.PaymentMethodCode,
		TaxBreakdown:      make([]dto.TaxAmountResponse, 0, len(inv.TaxBreakdown)),
		CreatedAt:         inv.CreatedAt,
	}
	for _, t := range inv.TaxBreakdown {
		out.TaxBreakdown = append(out.TaxBreakdown, dto.TaxAmountResponse{Label: t.Label, Amount: t.Amount})
	}
	if withLines {
		out.Lines = make([]dto.InvoiceLineResponse, 0, len(inv.Lines))
		for _, l := range inv.Lines {
			out.Lines = append(out.Lines, dto.InvoiceLineResponse{
				Position:    l.Position,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				LineTotal:   l.LineTotal,
			})
		}
	}
	return out
}

// FlattenInvoice una fila por ítem con la cabecera repetida. Un documento sin ítems produce
// una sola fila con los campos del ítem vacíos y cantidades en cero.
func FlattenInvoice(inv *entity.Invoice) []dto.ExportRow {
	header := dto.ExportRow{
		DisplayNumber: inv.DisplayNumberOrShortID(),
		IssueDate:     formatDate(inv),
		IssuerID:      inv.IssuerID,
		IssuerName:    inv.IssuerName,
		ReceiverID:    inv.ReceiverID,
		ReceiverName:  inv.ReceiverName,
		PaymentForm:   inv.PaymentForm.Label(inv.PaymentFormCode),
		PaymentMethod: inv.PaymentMethodCode,
		TaxBreakdown:  inv.TaxBreakdown.String(),
		InvoiceTotal:  inv.TotalAmount,
		ItemQuantity:  decimal.Zero,
		ItemUnitPrice: decimal.Zero,
		ItemLineTotal: decimal.Zero,
		DocumentID:    inv.DocumentID,
	}
	if len(inv.Lines) == 0 {
		return []dto.ExportRow{header}
	}
	rows := make([]dto.ExportRow, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		row := header
		row.ItemDescription = l.Description
		row.ItemQuantity = l.Quantity
		row.ItemUnitPrice = l.UnitPrice
		row.ItemLineTotal = l.LineTotal
		rows = append(rows, row)
	}
	return rows
}
