package invoicing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/infrastructure/ubl"
)

type ImportSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *memoryRepo
	tx      *fakeTxRunner
	metrics *countingMetrics
	uc      *invoicing.ImportUseCase
}

func TestImportSuite(t *testing.T) {
	suite.Run(t, new(ImportSuite))
}

func (s *ImportSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = newMemoryRepo()
	s.tx = &fakeTxRunner{repo: s.repo}
	s.metrics = &countingMetrics{}
	s.uc = invoicing.NewImportUseCase(s.tx, ubl.NewExtractor(zerolog.Nop()), s.metrics, 10)
}

func (s *ImportSuite) TestLoteMixto() {
	files := []dto.UploadedFile{
		{Filename: "fe-001.xml", Content: invoiceXML("cufe-001", "FE1", 2)},
		{Filename: "fe-001-copia.xml", Content: invoiceXML("cufe-001", "FE1", 2)},
		{Filename: "notas.txt", Content: []byte("hola")},
		{Filename: "vacio.xml", Content: []byte("  \n")},
		{Filename: "roto.xml", Content: []byte("<Invoice><cbc:ID>sin uuid</cbc:ID></Invoice>")},
		{Filename: "FE-002.XML", Content: invoiceXML("cufe-002", "FE2", 0)},
	}

	report, err := s.uc.ImportDocuments(s.ctx, files)
	s.Require().NoError(err)

	s.Equal(2, report.Uploaded)
	s.Equal(1, report.Skipped)
	s.Equal(3, report.Errors)
	s.Require().Len(report.Details, len(files))

	s.Equal(dto.ImportDetail{Filename: "fe-001.xml", Status: dto.ImportStatusUploaded, Message: "guardada con 2 ítems"}, report.Details[0])
	s.Equal(dto.ImportDetail{Filename: "fe-001-copia.xml", Status: dto.ImportStatusSkipped, Message: "UUID ya existe"}, report.Details[1])
	s.Equal("solo se aceptan archivos .xml", report.Details[2].Message)
	s.Equal("archivo vacío", report.Details[3].Message)
	s.Equal("estructura XML inválida o campos críticos ausentes", report.Details[4].Message)
	s.Equal("guardada con 0 ítems", report.Details[5].Message)

	// El duplicado no sobrescribe: un solo registro por CUFE.
	n, _ := s.repo.Count(s.ctx)
	s.Equal(2, n)
	stored, _ := s.repo.GetByDocumentID(s.ctx, "cufe-001")
	s.Require().NotNil(stored)
	s.Equal("fe-001.xml", report.Details[0].Filename)
	s.Len(stored.Lines, 2)

	s.Equal(map[string]int{"uploaded": 2, "skipped": 1, "error": 3}, s.metrics.byStatus)
	s.Equal(3, s.tx.calls, "solo los documentos extraídos llegan a la transacción")
}

func (s *ImportSuite) TestReimportarEsIdempotente() {
	files := []dto.UploadedFile{{Filename: "a.xml", Content: invoiceXML("cufe-a", "A1", 1)}}

	first, err := s.uc.ImportDocuments(s.ctx, files)
	s.Require().NoError(err)
	second, err := s.uc.ImportDocuments(s.ctx, files)
	s.Require().NoError(err)

	s.Equal(1, first.Uploaded)
	s.Equal(0, second.Uploaded)
	s.Equal(1, second.Skipped)
	n, _ := s.repo.Count(s.ctx)
	s.Equal(1, n)
}

func (s *ImportSuite) TestLoteVacio() {
	report, err := s.uc.ImportDocuments(s.ctx, nil)
	s.Nil(report)
	s.ErrorIs(err, domain.ErrEmptyBatch)
}

func (s *ImportSuite) TestLimiteDeArchivos() {
	uc := invoicing.NewImportUseCase(s.tx, ubl.NewExtractor(zerolog.Nop()), nil, 1)
	files := []dto.UploadedFile{
		{Filename: "a.xml", Content: invoiceXML("a", "1", 1)},
		{Filename: "b.xml", Content: invoiceXML("b", "2", 1)},
	}

	_, err := uc.ImportDocuments(s.ctx, files)
	s.ErrorIs(err, domain.ErrInvalidInput)
	s.Equal(0, s.tx.calls)
}

func (s *ImportSuite) TestFalloDePersistenciaNoDetieneElLote() {
	repo := new(mockInvoiceRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("conexión perdida")).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	uc := invoicing.NewImportUseCase(&fakeTxRunner{repo: repo}, ubl.NewExtractor(zerolog.Nop()), nil, 0)
	report, err := uc.ImportDocuments(s.ctx, []dto.UploadedFile{
		{Filename: "a.xml", Content: invoiceXML("a", "1", 1)},
		{Filename: "b.xml", Content: invoiceXML("b", "2", 1)},
	})
	s.Require().NoError(err)

	s.Equal(1, report.Errors)
	s.Equal(1, report.Uploaded)
	s.Contains(report.Details[0].Message, "conexión perdida")
	repo.AssertExpectations(s.T())
}
