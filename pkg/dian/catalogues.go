// Package dian contiene catálogos y validaciones alineados al Anexo Técnico
// de Factura Electrónica de Venta DIAN (Colombia) v1.9, en la parte que se
// necesita para leer documentos recibidos.
package dian

// =============================================================================
// Namespaces UBL 2.1 usados por la DIAN
// =============================================================================

const (
	NsInvoice          = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	NsCreditNote       = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	NsDebitNote        = "urn:oasis:names:specification:ubl:schema:xsd:DebitNote-2"
	NsAttachedDocument = "urn:oasis:names:specification:ubl:schema:xsd:AttachedDocument-2"
	NsCac              = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	NsCbc              = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"
	NsExt              = "urn:oasis:names:specification:ubl:schema:xsd:CommonExtensionComponents-2"
)

// Elementos raíz reconocidos.
const (
	RootInvoice          = "Invoice"
	RootCreditNote       = "CreditNote"
	RootDebitNote        = "DebitNote"
	RootAttachedDocument = "AttachedDocument"
)

// =============================================================================
// Tabla 14 - Forma de Pago (Anexo 1.9 - 13.3.4.1)
// =============================================================================

const (
	PaymentFormContado = "1" // Contado
	PaymentFormCredito = "2" // Crédito
)

var paymentFormLabels = map[string]string{
	PaymentFormContado: "Contado",
	PaymentFormCredito: "Crédito",
}

// PaymentFormLabel devuelve la etiqueta de la forma de pago o el código si no está catalogado.
func PaymentFormLabel(code string) string {
	if l, ok := paymentFormLabels[code]; ok {
		return l
	}
	return code
}

// =============================================================================
// Tabla 13 - Medios de Pago (Anexo 1.9 - 13.3.4.2) - códigos de uso frecuente
// =============================================================================

const (
	PaymentMethodInstrumentoNoDefinido = "1"  // Instrumento no definido
	PaymentMethodEfectivo              = "10" // Efectivo
	PaymentMethodConsignacion          = "42" // Consignación bancaria
	PaymentMethodTransferencia         = "47" // Transferencia Débito Bancaria
	PaymentMethodTarjetaCredito        = "48" // Tarjeta Crédito
	PaymentMethodTarjetaDebito         = "49" // Tarjeta Débito
	PaymentMethodAcuerdoMutuo          = "ZZZ"
)

// =============================================================================
// Tabla 11 - Tipos de Impuesto (Anexo 1.9 - 13.2.2)
// =============================================================================

const (
	TaxCodeIVA     = "01" // IVA
	TaxCodeICA     = "03" // ICA
	TaxCodeINC     = "04" // Impuesto Nacional al Consumo
	TaxCodeReteIVA = "05" // Retención sobre el IVA
)

var taxSchemeNames = map[string]string{
	TaxCodeIVA:     "IVA",
	TaxCodeICA:     "ICA",
	TaxCodeINC:     "INC",
	TaxCodeReteIVA: "ReteIVA",
}

// TaxSchemeName nombre corto del tributo a partir de su código; "" si no está catalogado.
// Se usa cuando el XML trae cbc:ID pero no cbc:Name en cac:TaxScheme.
func TaxSchemeName(code string) string {
	return taxSchemeNames[code]
}

// =============================================================================
// Tabla 3 - Tipos de identificación (Anexo 1.9 - 13.2.1)
// =============================================================================

const (
	IdentificationTypeNIT = "31" // NIT - requiere dígito de verificación
	IdentificationTypeCC  = "13" // Cédula de ciudadanía
)
