package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento fiscal soportados (raíz UBL 2.1).
const (
	DocumentTypeInvoice    = "Invoice"
	DocumentTypeCreditNote = "CreditNote"
	DocumentTypeDebitNote  = "DebitNote"
)

// Invoice representa un documento fiscal importado (factura, nota crédito o débito).
// DocumentID es el CUFE/CUDE: identificador global, único e inmutable.
type Invoice struct {
	ID                string // id técnico (uuid) asignado al persistir
	DocumentID        string // CUFE (cbc:UUID)
	DocumentType      string
	DisplayNumber     string // número legible (ej: "BRZ2975"), puede venir vacío
	IssuerID          string
	IssuerName        string
	ReceiverID        string
	ReceiverName      string
	IssueDate         *time.Time
	TotalAmount       decimal.Decimal
	TaxAmount         decimal.Decimal
	BaseAmount        decimal.Decimal
	PaymentForm       PaymentForm
	PaymentFormCode   string // código original de cac:PaymentMeans/cbc:ID
	PaymentMethodCode string // cac:PaymentMeans/cbc:PaymentMeansCode (opaco)
	TaxBreakdown      TaxBreakdown
	RawPayload        []byte // XML original, para auditoría y re-exportación
	Lines             []InvoiceLine
	CreatedAt         time.Time
	// Warnings observaciones de la extracción que no impiden importar (ej: DV del NIT).
	// No se persisten.
	Warnings []string
}

// DisplayNumberOrShortID devuelve el número legible o, si no existe, los primeros 12
// caracteres del CUFE.
func (i *Invoice) DisplayNumberOrShortID() string {
	if i.DisplayNumber != "" {
		return i.DisplayNumber
	}
	return ShortID(i.DocumentID)
}

// ShortID recorta un identificador a 12 caracteres para logs y reportes.
func ShortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
