package ledger

import "github.com/shopspring/decimal"

// Tasa de IVA general y tolerancia absoluta sobre la razón impuesto/base.
var (
	DefaultTaxRate      = decimal.RequireFromString("0.19")
	DefaultTaxTolerance = decimal.RequireFromString("0.001")
)

// ratioPrecision dígitos decimales al calcular impuesto/base.
const ratioPrecision = 16

// TaxRule verificación de una sola tasa con tolerancia absoluta.
type TaxRule struct {
	Rate      decimal.Decimal
	Tolerance decimal.Decimal
}

// DefaultTaxRule IVA 19% ± 0.001.
func DefaultTaxRule() TaxRule {
	return TaxRule{Rate: DefaultTaxRate, Tolerance: DefaultTaxTolerance}
}

// Evaluate aplica, en orden:
//  1. base = 0 y tax = 0 -> OK (documento exento)
//  2. base = 0 y tax != 0 -> CHECK
//  3. |tax/base - Rate| < Tolerance -> OK
//  4. en otro caso -> CHECK
func (r TaxRule) Evaluate(base, tax decimal.Decimal) TaxVerdict {
	if base.IsZero() {
		if tax.IsZero() {
			return TaxOK
		}
		return TaxCheck
	}
	ratio := tax.DivRound(base, ratioPrecision)
	if ratio.Sub(r.Rate).Abs().LessThan(r.Tolerance) {
		return TaxOK
	}
	return TaxCheck
}

// Ratio devuelve impuesto/base o false si la base es cero.
func (r TaxRule) Ratio(base, tax decimal.Decimal) (decimal.Decimal, bool) {
	if base.IsZero() {
		return decimal.Zero, false
	}
	return tax.DivRound(base, ratioPrecision), true
}
