package invoicing_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/ubl"
)

func sampleInvoice() *entity.Invoice {
	issued := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		DocumentID:      "a1b2c3d4e5f6a7b8c9d0",
		DocumentType:    entity.DocumentTypeInvoice,
		IssuerID:        "900123456",
		IssuerName:      "Emisor SAS",
		IssueDate:       &issued,
		TotalAmount:     decimal.RequireFromString("238.00"),
		TaxAmount:       decimal.RequireFromString("38.00"),
		BaseAmount:      decimal.RequireFromString("200.00"),
		PaymentForm:     entity.PaymentFormCredit,
		PaymentFormCode: "2",
	}
	inv.TaxBreakdown.Add("IVA 19%", decimal.RequireFromString("38"))
	return inv
}

func TestFlattenInvoice_SinItemsUnaFila(t *testing.T) {
	inv := sampleInvoice()

	rows := invoicing.FlattenInvoice(inv)

	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "a1b2c3d4e5f6", r.DisplayNumber, "sin número legible se usa el CUFE corto")
	assert.Equal(t, "2024-03-01", r.IssueDate)
	assert.Equal(t, "Crédito", r.PaymentForm)
	assert.Equal(t, "IVA 19%: 38.00", r.TaxBreakdown)
	assert.Empty(t, r.ItemDescription)
	assert.True(t, r.ItemQuantity.IsZero())
	assert.True(t, r.ItemLineTotal.IsZero())
	assert.Equal(t, inv.DocumentID, r.DocumentID)
}

func TestFlattenInvoice_CabeceraRepetidaPorItem(t *testing.T) {
	inv := sampleInvoice()
	inv.DisplayNumber = "SETP990000001"
	inv.Lines = []entity.InvoiceLine{
		{Position: 1, Description: "Tornillo", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(50)},
		{Position: 2, Description: "Tuerca", Quantity: decimal.NewFromInt(30), UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(150)},
	}

	rows := invoicing.FlattenInvoice(inv)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, "SETP990000001", r.DisplayNumber)
		assert.True(t, r.InvoiceTotal.Equal(inv.TotalAmount))
	}
	assert.Equal(t, "Tornillo", rows[0].ItemDescription)
	assert.Equal(t, "Tuerca", rows[1].ItemDescription)
	assert.True(t, rows[1].ItemLineTotal.Equal(decimal.NewFromInt(150)))
}

func TestFlattenInvoice_ConservaTotalesDelXML(t *testing.T) {
	inv, err := ubl.NewExtractor(zerolog.Nop()).Extract(invoiceXML("cufe-roundtrip-0001", "FE77", 3))
	require.NoError(t, err)

	rows := invoicing.FlattenInvoice(inv)

	require.Len(t, rows, 3)
	sum := decimal.Zero
	for _, r := range rows {
		assert.Equal(t, "cufe-roundtrip-0001", r.DocumentID)
		assert.Equal(t, "FE77", r.DisplayNumber)
		assert.True(t, r.InvoiceTotal.Equal(decimal.NewFromInt(357)), "total %s", r.InvoiceTotal)
		sum = sum.Add(r.ItemLineTotal)
	}
	assert.True(t, sum.Equal(inv.BaseAmount))
	assert.Equal(t, "IVA 19%: 57.00", rows[0].TaxBreakdown)
	assert.Equal(t, "Contado", rows[0].PaymentForm)
}

func TestToInvoiceResponse_ItemsOpcionales(t *testing.T) {
	inv := sampleInvoice()
	inv.Lines = []entity.InvoiceLine{{Position: 1, Description: "X", Quantity: decimal.NewFromInt(1)}}

	summary := invoicing.ToInvoiceResponse(inv, false)
	full := invoicing.ToInvoiceResponse(inv, true)

	assert.Nil(t, summary.Lines)
	require.Len(t, full.Lines, 1)
	assert.Equal(t, "credit", string(inv.PaymentForm))
	assert.Equal(t, "Crédito", full.PaymentForm)
	require.Len(t, full.TaxBreakdown, 1)
	assert.Equal(t, "IVA 19%", full.TaxBreakdown[0].Label)
}

// ── consulta ──────────────────────────────────────────────────────────────────

func TestQueryList_PaginaPorDefecto(t *testing.T) {
	repo := new(mockInvoiceRepo)
	repo.On("List", mock.Anything, 20, 0).Return([]*entity.Invoice{sampleInvoice()}, nil)
	repo.On("Count", mock.Anything).Return(41, nil)

	out, err := invoicing.NewQueryUseCase(repo).List(context.Background(), dto.PageRequest{})

	require.NoError(t, err)
	assert.Equal(t, dto.PageResponse{Limit: 20, Offset: 0, Total: 41}, out.Page)
	require.Len(t, out.Data, 1)
	assert.Nil(t, out.Data[0].Lines)
	repo.AssertExpectations(t)
}

func TestQueryList_LimiteExcedido(t *testing.T) {
	repo := new(mockInvoiceRepo)

	_, err := invoicing.NewQueryUseCase(repo).List(context.Background(), dto.PageRequest{Limit: 101})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryGet_NoEncontrado(t *testing.T) {
	repo := new(mockInvoiceRepo)
	repo.On("GetByDocumentID", mock.Anything, "no-existe").Return(nil, nil)

	_, err := invoicing.NewQueryUseCase(repo).Get(context.Background(), " no-existe ")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryGet_ErrorDeRepositorio(t *testing.T) {
	repo := new(mockInvoiceRepo)
	boom := errors.New("db caída")
	repo.On("GetByDocumentID", mock.Anything, "x").Return(nil, boom)

	_, err := invoicing.NewQueryUseCase(repo).Get(context.Background(), "x")

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestQueryDelete(t *testing.T) {
	repo := newMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), sampleInvoice()))
	uc := invoicing.NewQueryUseCase(repo)

	require.NoError(t, uc.Delete(context.Background(), "a1b2c3d4e5f6a7b8c9d0"))
	assert.ErrorIs(t, uc.Delete(context.Background(), "a1b2c3d4e5f6a7b8c9d0"), domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(context.Background(), "  "), domain.ErrInvalidInput)
}

// ── exportación y PDF ─────────────────────────────────────────────────────────

type captureWriter struct {
	rows []dto.ExportRow
	err  error
}

func (c *captureWriter) WriteInvoices(_ io.Writer, rows []dto.ExportRow) error {
	c.rows = rows
	return c.err
}

func TestExport_AplanaTodosLosDocumentos(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	extractor := ubl.NewExtractor(zerolog.Nop())
	for _, doc := range [][]byte{invoiceXML("cufe-1", "F1", 2), invoiceXML("cufe-2", "F2", 0)} {
		inv, err := extractor.Extract(doc)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, inv))
	}
	w := &captureWriter{}

	n, err := invoicing.NewExportUseCase(repo, w).Export(ctx, io.Discard)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.Len(t, w.rows, 3)
	assert.Equal(t, "cufe-1", w.rows[0].DocumentID)
	assert.Equal(t, "cufe-2", w.rows[2].DocumentID)
	assert.Empty(t, w.rows[2].ItemDescription)
}

func TestExport_ErrorDeEscritura(t *testing.T) {
	w := &captureWriter{err: errors.New("disco lleno")}

	_, err := invoicing.NewExportUseCase(newMemoryRepo(), w).Export(context.Background(), io.Discard)

	assert.ErrorContains(t, err, "disco lleno")
}

type stubPDF struct {
	got *entity.Invoice
}

func (s *stubPDF) GenerateInvoicePDF(_ context.Context, inv *entity.Invoice) ([]byte, error) {
	s.got = inv
	return []byte("%PDF-1.4"), nil
}

func TestDownloadInvoicePDF_NombreSeguro(t *testing.T) {
	repo := newMemoryRepo()
	inv := sampleInvoice()
	inv.DisplayNumber = "FE/2024 001"
	require.NoError(t, repo.Create(context.Background(), inv))
	gen := &stubPDF{}

	pdf, filename, err := invoicing.NewPDFUseCase(repo, gen).DownloadInvoicePDF(context.Background(), inv.DocumentID)

	require.NoError(t, err)
	assert.Equal(t, "factura_FE_2024_001.pdf", filename)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Same(t, inv, gen.got)
}

func TestDownloadInvoicePDF_NoEncontrado(t *testing.T) {
	_, _, err := invoicing.NewPDFUseCase(newMemoryRepo(), &stubPDF{}).DownloadInvoicePDF(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
