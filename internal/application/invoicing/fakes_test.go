package invoicing_test

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

// ── mock de repositorio (testify/mock) ────────────────────────────────────────

type mockInvoiceRepo struct {
	mock.Mock
}

var _ repository.InvoiceRepository = (*mockInvoiceRepo)(nil)

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *mockInvoiceRepo) GetByDocumentID(ctx context.Context, id string) (*entity.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*entity.Invoice)
	return inv, args.Error(1)
}

func (m *mockInvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	args := m.Called(ctx, limit, offset)
	invs, _ := args.Get(0).([]*entity.Invoice)
	return invs, args.Error(1)
}

func (m *mockInvoiceRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockInvoiceRepo) ListAllWithLines(ctx context.Context) ([]*entity.Invoice, error) {
	args := m.Called(ctx)
	invs, _ := args.Get(0).([]*entity.Invoice)
	return invs, args.Error(1)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// ── repositorio en memoria con unicidad por DocumentID ────────────────────────

type memoryRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Invoice
}

var _ repository.InvoiceRepository = (*memoryRepo)(nil)

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[string]*entity.Invoice)}
}

func (r *memoryRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[inv.DocumentID]; ok {
		return domain.ErrDuplicate
	}
	r.byID[inv.DocumentID] = inv
	return nil
}

func (r *memoryRepo) GetByDocumentID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memoryRepo) all() []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(r.byID))
	for _, inv := range r.byID {
		out = append(out, inv)
	}
	slices.SortFunc(out, func(a, b *entity.Invoice) int { return strings.Compare(a.DocumentID, b.DocumentID) })
	return out
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.all()
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *memoryRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID), nil
}

func (r *memoryRepo) ListAllWithLines(context.Context) ([]*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.all(), nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byID[id]
	delete(r.byID, id)
	return ok, nil
}

// ── tx runner que entrega siempre el mismo repositorio ────────────────────────

type fakeTxRunner struct {
	repo  repository.InvoiceRepository
	calls int
}

func (f *fakeTxRunner) RunImport(_ context.Context, fn func(repository.InvoiceRepository) error) error {
	f.calls++
	return fn(f.repo)
}

type countingMetrics struct {
	byStatus map[string]int
}

func (c *countingMetrics) ObserveImport(status string) {
	if c.byStatus == nil {
		c.byStatus = make(map[string]int)
	}
	c.byStatus[status]++
}

// ── fixtures XML ──────────────────────────────────────────────────────────────

const ublNamespaces = `xmlns="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2" ` +
	`xmlns:cac="urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2" ` +
	`xmlns:cbc="urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"`

// invoiceXML factura mínima con n ítems de 100 + IVA 19%.
func invoiceXML(documentID, number string, n int) []byte {
	var lines strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&lines, `<cac:InvoiceLine><cbc:ID>%d</cbc:ID><cbc:InvoicedQuantity>1</cbc:InvoicedQuantity>`+
			`<cbc:LineExtensionAmount>100.00</cbc:LineExtensionAmount>`+
			`<cac:Item><cbc:Description>Ítem %d</cbc:Description></cac:Item>`+
			`<cac:Price><cbc:PriceAmount>100.00</cbc:PriceAmount></cac:Price></cac:InvoiceLine>`, i, i)
	}
	base := 100 * n
	tax := 19 * n
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Invoice %s>
  <cbc:ID>%s</cbc:ID>
  <cbc:UUID>%s</cbc:UUID>
  <cbc:IssueDate>2024-05-10</cbc:IssueDate>
  <cac:AccountingSupplierParty><cac:Party><cac:PartyTaxScheme>
    <cbc:RegistrationName>Proveedor SAS</cbc:RegistrationName><cbc:CompanyID>800197268</cbc:CompanyID>
  </cac:PartyTaxScheme></cac:Party></cac:AccountingSupplierParty>
  <cac:PaymentMeans><cbc:ID>1</cbc:ID><cbc:PaymentMeansCode>10</cbc:PaymentMeansCode></cac:PaymentMeans>
  <cac:TaxTotal>
    <cbc:TaxAmount>%d.00</cbc:TaxAmount>
    <cac:TaxSubtotal><cbc:TaxAmount>%d.00</cbc:TaxAmount>
      <cac:TaxCategory><cbc:Percent>19</cbc:Percent><cac:TaxScheme><cbc:Name>IVA</cbc:Name></cac:TaxScheme></cac:TaxCategory>
    </cac:TaxSubtotal>
  </cac:TaxTotal>
  <cac:LegalMonetaryTotal>
    <cbc:LineExtensionAmount>%d.00</cbc:LineExtensionAmount>
    <cbc:PayableAmount>%d.00</cbc:PayableAmount>
  </cac:LegalMonetaryTotal>
  %s
</Invoice>`, ublNamespaces, number, documentID, tax, tax, base, base+tax, lines.String()))
}
