// Package ubl extrae documentos fiscales DIAN (UBL 2.1) a entidades de dominio. Soporta
// Invoice, CreditNote y DebitNote directos o envueltos en un AttachedDocument.
package ubl

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/pkg/dian"
)

const defaultLineDescription = "Sin descripción"

// lineSpec nombre del elemento de línea y de su cantidad según el tipo de documento.
type lineSpec struct {
	line     string
	quantity string
	totals   string // LegalMonetaryTotal o RequestedMonetaryTotal
}

var lineSpecs = map[string]lineSpec{
	dian.RootInvoice:    {line: "InvoiceLine", quantity: "InvoicedQuantity", totals: "LegalMonetaryTotal"},
	dian.RootCreditNote: {line: "CreditNoteLine", quantity: "CreditedQuantity", totals: "LegalMonetaryTotal"},
	dian.RootDebitNote:  {line: "DebitNoteLine", quantity: "DebitedQuantity", totals: "RequestedMonetaryTotal"},
}

// Extractor convierte el XML de un documento fiscal en un entity.Invoice. Sin estado; seguro
// para uso concurrente.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor crea el extractor.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract analiza payload. Los fallos (XML ilegible, sobre vacío, sin cbc:UUID) se registran
// en WARN y se retornan envueltos en domain.ErrExtraction para que el lote continúe.
func (e *Extractor) Extract(payload []byte) (*entity.Invoice, error) {
	d := decode(payload)
	if d.kind == kindMalformed {
		return nil, e.fail(d.reason)
	}

	root := d.root
	documentID := textAt(root, cbc("UUID"))
	if documentID == "" {
		return nil, e.fail("falta cbc:UUID")
	}
	spec := lineSpecs[root.Tag]

	inv := &entity.Invoice{
		DocumentID:    documentID,
		DocumentType:  documentType(root.Tag),
		DisplayNumber: textAt(root, cbc("ID")),
		IssueDate:     parseDate(textAt(root, cbc("IssueDate"))),
		RawPayload:    payload,
	}

	totals := child(root, cac(spec.totals))
	inv.TotalAmount = money(textAt(totals, cbc("PayableAmount")))
	inv.BaseAmount = money(textAt(totals, cbc("LineExtensionAmount")))

	e.parseParty(inv, root)
	e.parsePayment(inv, root)
	parseTaxes(inv, root)
	inv.Lines = parseLines(root, spec)

	e.log.Debug().
		Str("document_id", entity.ShortID(documentID)).
		Str("kind", d.kind.String()).
		Str("type", inv.DocumentType).
		Int("lines", len(inv.Lines)).
		Msg("documento extraído")
	return inv, nil
}

func (e *Extractor) fail(reason string) error {
	e.log.Warn().Str("reason", reason).Msg("documento descartado")
	return fmt.Errorf("%w: %s", domain.ErrExtraction, reason)
}

func documentType(root string) string {
	switch root {
	case dian.RootCreditNote:
		return entity.DocumentTypeCreditNote
	case dian.RootDebitNote:
		return entity.DocumentTypeDebitNote
	default:
		return entity.DocumentTypeInvoice
	}
}

func (e *Extractor) parseParty(inv *entity.Invoice, root *etree.Element) {
	supplier := path(root, cac("AccountingSupplierParty"), cac("Party"))
	customer := path(root, cac("AccountingCustomerParty"), cac("Party"))

	var issuerIDEl *etree.Element
	inv.IssuerID, inv.IssuerName, issuerIDEl = partyIdentity(supplier)
	inv.ReceiverID, inv.ReceiverName, _ = partyIdentity(customer)

	if warning := checkNIT(issuerIDEl); warning != "" {
		inv.Warnings = append(inv.Warnings, warning)
		e.log.Warn().Str("document_id", entity.ShortID(inv.DocumentID)).Msg(warning)
	}
}

// partyIdentity: CompanyID de PartyTaxScheme (o PartyLegalEntity) y razón social con
// respaldo en PartyName/Name.
func partyIdentity(party *etree.Element) (id, name string, idEl *etree.Element) {
	if party == nil {
		return "", "", nil
	}
	idEl = path(party, cac("PartyTaxScheme"), cbc("CompanyID"))
	if innerText(idEl) == "" {
		idEl = path(party, cac("PartyLegalEntity"), cbc("CompanyID"))
	}
	name = textAt(party, cac("PartyTaxScheme"), cbc("RegistrationName"))
	if name == "" {
		name = textAt(party, cac("PartyName"), cbc("Name"))
	}
	if name == "" {
		name = textAt(party, cac("PartyLegalEntity"), cbc("RegistrationName"))
	}
	return innerText(idEl), name, idEl
}

// checkNIT verifica el dígito de verificación cuando el emisor se identifica con NIT
// (schemeName="31") y declara schemeID. Retorna la advertencia o "".
func checkNIT(idEl *etree.Element) string {
	if idEl == nil || idEl.SelectAttrValue("schemeName", "") != dian.IdentificationTypeNIT {
		return ""
	}
	dv := idEl.SelectAttrValue("schemeID", "")
	if dv == "" {
		return ""
	}
	if err := dian.VerifyNIT(innerText(idEl), dv); err != nil {
		return err.Error()
	}
	return ""
}

func (e *Extractor) parsePayment(inv *entity.Invoice, root *etree.Element) {
	means := child(root, cac("PaymentMeans"))
	inv.PaymentFormCode = textAt(means, cbc("ID"))
	inv.PaymentMethodCode = textAt(means, cbc("PaymentMeansCode"))
	inv.PaymentForm = entity.PaymentFormFromCode(inv.PaymentFormCode)
}

// parseTaxes recorre los cac:TaxTotal del documento (no los de línea). TaxAmount es la suma de
// los TaxTotal; el desglose se arma por TaxSubtotal con etiqueta "<esquema> <tarifa>%".
func parseTaxes(inv *entity.Invoice, root *etree.Element) {
	total := decimal.Zero
	for _, tt := range children(root, cac("TaxTotal")) {
		total = total.Add(money(textAt(tt, cbc("TaxAmount"))))
		for _, sub := range children(tt, cac("TaxSubtotal")) {
			inv.TaxBreakdown.Add(taxLabel(sub), money(textAt(sub, cbc("TaxAmount"))))
		}
	}
	inv.TaxAmount = total
}

func taxLabel(sub *etree.Element) string {
	category := child(sub, cac("TaxCategory"))
	scheme := child(category, cac("TaxScheme"))
	name := textAt(scheme, cbc("Name"))
	if name == "" {
		name = dian.TaxSchemeName(textAt(scheme, cbc("ID")))
	}
	if name == "" {
		name = "Impuesto"
	}
	percent := textAt(category, cbc("Percent"))
	if percent == "" {
		percent = textAt(sub, cbc("Percent"))
	}
	if percent == "" {
		return name
	}
	if p, err := decimal.NewFromString(percent); err == nil {
		percent = p.String()
	}
	return name + " " + percent + "%"
}

func parseLines(root *etree.Element, spec lineSpec) []entity.InvoiceLine {
	nodes := children(root, cac(spec.line))
	lines := make([]entity.InvoiceLine, 0, len(nodes))
	for i, n := range nodes {
		desc := textAt(n, cac("Item"), cbc("Description"))
		if desc == "" {
			desc = defaultLineDescription
		}
		lines = append(lines, entity.InvoiceLine{
			Position:    i + 1,
			Description: desc,
			Quantity:    amount(textAt(n, cbc(spec.quantity)), entity.QuantityScale),
			UnitPrice:   money(textAt(n, cac("Price"), cbc("PriceAmount"))),
			LineTotal:   money(textAt(n, cbc("LineExtensionAmount"))),
		})
	}
	return lines
}

func money(s string) decimal.Decimal {
	return amount(s, entity.MoneyScale)
}

// amount interpreta un valor numérico UBL; vacío o ilegible -> 0.
func amount(s string, scale int32) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(scale)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
