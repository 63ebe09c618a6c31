package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxAmount es una entrada del desglose de impuestos: etiqueta compuesta ("IVA 19%") y valor.
type TaxAmount struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// TaxBreakdown desglose de impuestos del documento. Conserva el orden de aparición y
// acumula etiquetas repetidas.
type TaxBreakdown []TaxAmount

// Add suma amount a la etiqueta label (la crea al final si no existe).
func (t *TaxBreakdown) Add(label string, amount decimal.Decimal) {
	for i := range *t {
		if (*t)[i].Label == label {
			(*t)[i].Amount = (*t)[i].Amount.Add(amount)
			return
		}
	}
	*t = append(*t, TaxAmount{Label: label, Amount: amount})
}

// Get devuelve el valor acumulado para label.
func (t TaxBreakdown) Get(label string) (decimal.Decimal, bool) {
	for _, ta := range t {
		if ta.Label == label {
			return ta.Amount, true
		}
	}
	return decimal.Zero, false
}

// Total suma todos los valores del desglose.
func (t TaxBreakdown) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, ta := range t {
		sum = sum.Add(ta.Amount)
	}
	return sum
}

// String representación legible: "IVA 19%: 190000.00, INC 8%: 800.00".
func (t TaxBreakdown) String() string {
	parts := make([]string, 0, len(t))
	for _, ta := range t {
		parts = append(parts, ta.Label+": "+ta.Amount.StringFixed(MoneyScale))
	}
	return strings.Join(parts, ", ")
}
