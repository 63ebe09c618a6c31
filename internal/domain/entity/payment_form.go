package entity

import "github.com/jhoicas/auditoria-fiscal/pkg/dian"

// PaymentForm forma de pago normalizada (Tabla 14 DIAN).
type PaymentForm string

const (
	PaymentFormCash    PaymentForm = "cash"
	PaymentFormCredit  PaymentForm = "credit"
	PaymentFormUnknown PaymentForm = "unknown"
)

// PaymentFormFromCode traduce el código cac:PaymentMeans/cbc:ID.
func PaymentFormFromCode(code string) PaymentForm {
	switch code {
	case dian.PaymentFormContado:
		return PaymentFormCash
	case dian.PaymentFormCredito:
		return PaymentFormCredit
	default:
		return PaymentFormUnknown
	}
}

// Label etiqueta para reportes. Si la forma es desconocida se usa el código crudo.
func (p PaymentForm) Label(code string) string {
	switch p {
	case PaymentFormCash:
		return dian.PaymentFormLabel(dian.PaymentFormContado)
	case PaymentFormCredit:
		return dian.PaymentFormLabel(dian.PaymentFormCredito)
	default:
		return code
	}
}
