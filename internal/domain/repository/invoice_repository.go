package repository

import (
	"context"

	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para documentos importados y sus líneas.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas. Si el DocumentID ya existe retorna domain.ErrDuplicate
	// sin modificar el registro almacenado.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByDocumentID devuelve la factura con sus líneas o (nil, nil) si no existe.
	GetByDocumentID(ctx context.Context, documentID string) (*entity.Invoice, error)
	// List devuelve cabeceras ordenadas por fecha de emisión descendente (sin fecha al final).
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	Count(ctx context.Context) (int, error)
	// ListAllWithLines devuelve todas las facturas con sus líneas, mismo orden que List.
	ListAllWithLines(ctx context.Context) ([]*entity.Invoice, error)
	// Delete elimina la factura y, en cascada, sus líneas. Retorna false si no existía.
	Delete(ctx context.Context, documentID string) (bool, error)
}
