package entity

import "github.com/shopspring/decimal"

// Escalas de persistencia de los montos.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 4
)

// InvoiceLine representa una línea del documento, en el orden en que aparece en el XML.
// Pertenece exclusivamente a su Invoice (borrado en cascada).
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal // escala 4
	UnitPrice   decimal.Decimal // escala 2
	LineTotal   decimal.Decimal // escala 2
}
