package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UploadedFile archivo recibido en la carga masiva (multipart o CLI).
type UploadedFile struct {
	Filename string
	Content  []byte
}

// Estados por archivo en ImportReport.
const (
	ImportStatusUploaded = "uploaded"
	ImportStatusSkipped  = "skipped"
	ImportStatusError    = "error"
)

// ImportDetail resultado de un archivo del lote.
type ImportDetail struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// ImportReport conteo agregado de la carga; nunca falla por un archivo individual.
type ImportReport struct {
	Uploaded int            `json:"uploaded"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Details  []ImportDetail `json:"details"`
}

// Add registra el resultado de un archivo y actualiza los contadores.
func (r *ImportReport) Add(d ImportDetail) {
	switch d.Status {
	case ImportStatusUploaded:
		r.Uploaded++
	case ImportStatusSkipped:
		r.Skipped++
	default:
		r.Errors++
	}
	r.Details = append(r.Details, d)
}

// TaxAmountResponse entrada del desglose de impuestos.
type TaxAmountResponse struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceLineResponse ítem del documento.
type InvoiceLineResponse struct {
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// InvoiceResponse documento importado. Lines solo se llena en GET /api/invoices/:documentId.
type InvoiceResponse struct {
	DocumentID        string                `json:"document_id"`
	DocumentType      string                `json:"document_type"`
	DisplayNumber     string                `json:"display_number"`
	IssuerID          string                `json:"issuer_id"`
	IssuerName        string                `json:"issuer_name"`
	ReceiverID        string                `json:"receiver_id"`
	ReceiverName      string                `json:"receiver_name"`
	IssueDate         string                `json:"issue_date,omitempty"` // YYYY-MM-DD
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	TaxAmount         decimal.Decimal       `json:"tax_amount"`
	BaseAmount        decimal.Decimal       `json:"base_amount"`
	PaymentForm       string                `json:"payment_form"`
	PaymentFormCode   string                `json:"payment_form_code,omitempty"`
	PaymentMethodCode string                `json:"payment_method_code,omitempty"`
	TaxBreakdown      []TaxAmountResponse   `json:"tax_breakdown"`
	Lines             []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
}

// InvoiceListResponse página del listado.
type InvoiceListResponse struct {
	Data []InvoiceResponse `json:"data"`
	Page PageResponse      `json:"page"`
}

// ExportRow fila aplanada de la exportación (una por ítem, cabecera repetida).
// El orden de los campos es el orden de las columnas del archivo.
type ExportRow struct {
	DisplayNumber   string
	IssueDate       string
	IssuerID        string
	IssuerName      string
	ReceiverID      string
	ReceiverName    string
	PaymentForm     string
	PaymentMethod   string
	TaxBreakdown    string
	InvoiceTotal    decimal.Decimal
	ItemDescription string
	ItemQuantity    decimal.Decimal
	ItemUnitPrice   decimal.Decimal
	ItemLineTotal   decimal.Decimal
	DocumentID      string
}
