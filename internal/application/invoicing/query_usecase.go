package invoicing

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

const maxPageLimit = 100

// QueryUseCase consulta y elimina documentos importados.
type QueryUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(invoiceRepo repository.InvoiceRepository) *QueryUseCase {
	return &QueryUseCase{invoiceRepo: invoiceRepo}
}

// List devuelve una página de cabeceras (fecha de emisión descendente) con el total.
func (uc *QueryUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	if page.Limit > maxPageLimit {
		return nil, fmt.Errorf("%w: limit máximo %d", domain.ErrInvalidInput, maxPageLimit)
	}
	invoices, err := uc.invoiceRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	total, err := uc.invoiceRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar facturas: %w", err)
	}
	out := &dto.InvoiceListResponse{
		Data: make([]dto.InvoiceResponse, 0, len(invoices)),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, inv := range invoices {
		out.Data = append(out.Data, ToInvoiceResponse(inv, false))
	}
	return out, nil
}

// Get devuelve el documento con sus ítems o domain.ErrNotFound.
func (uc *QueryUseCase) Get(ctx context.Context, documentID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	out := ToInvoiceResponse(inv, true)
	return &out, nil
}

// Delete elimina el documento y sus ítems (cascada) o retorna domain.ErrNotFound.
func (uc *QueryUseCase) Delete(ctx context.Context, documentID string) error {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return domain.ErrInvalidInput
	}
	deleted, err := uc.invoiceRepo.Delete(ctx, documentID)
	if err != nil {
		return fmt.Errorf("eliminar factura: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	log.Info().Str("document_id", entity.ShortID(documentID)).Msg("documento eliminado")
	return nil
}

func (uc *QueryUseCase) load(ctx context.Context, documentID string) (*entity.Invoice, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
