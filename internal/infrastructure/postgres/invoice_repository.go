package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/entity"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Create no es atómico por sí mismo: cabecera y líneas deben ejecutarse dentro de TxRunner.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, document_id, document_type, display_number,
	issuer_id, issuer_name, receiver_id, receiver_name, issue_date,
	total_amount, tax_amount, base_amount,
	payment_form, payment_form_code, payment_method_code, tax_breakdown, created_at`

const invoiceOrder = `ORDER BY issue_date DESC NULLS LAST, created_at DESC`

type scanner interface {
	Scan(dest ...any) error
}

// Create persiste cabecera y líneas. Un document_id existente retorna domain.ErrDuplicate sin
// tocar el registro almacenado.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now().UTC()
	}
	breakdown, err := json.Marshal(invoice.TaxBreakdown)
	if err != nil {
		return fmt.Errorf("codificar desglose de impuestos: %w", err)
	}
	if invoice.TaxBreakdown == nil {
		breakdown = []byte("[]")
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `, raw_payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (document_id) DO NOTHING
		RETURNING id`
	var id string
	err = r.q.QueryRow(ctx, query,
		invoice.ID, invoice.DocumentID, invoice.DocumentType, nullIfEmpty(invoice.DisplayNumber),
		invoice.IssuerID, invoice.IssuerName, invoice.ReceiverID, invoice.ReceiverName, invoice.IssueDate,
		invoice.TotalAmount, invoice.TaxAmount, invoice.BaseAmount,
		string(invoice.PaymentForm), invoice.PaymentFormCode, invoice.PaymentMethodCode, string(breakdown),
		invoice.CreatedAt, invoice.RawPayload,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	if len(invoice.Lines) == 0 {
		return nil
	}
	invoiceID, err := uuid.Parse(invoice.ID)
	if err != nil {
		return fmt.Errorf("id de factura inválido: %w", err)
	}
	lineIDs := make([]uuid.UUID, len(invoice.Lines))
	for i := range invoice.Lines {
		lineIDs[i] = uuid.New()
		invoice.Lines[i].ID = lineIDs[i].String()
		invoice.Lines[i].InvoiceID = invoice.ID
	}
	// COPY usa formato binario: los uuid viajan como uuid.UUID, no como texto.
	_, err = r.q.CopyFrom(ctx,
		pgx.Identifier{"invoice_lines"},
		[]string{"id", "invoice_id", "position", "description", "quantity", "unit_price", "line_total"},
		pgx.CopyFromSlice(len(invoice.Lines), func(i int) ([]any, error) {
			l := invoice.Lines[i]
			return []any{lineIDs[i], invoiceID, int32(l.Position), l.Description, l.Quantity, l.UnitPrice, l.LineTotal}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("insert invoice lines: %w", err)
	}
	return nil
}

// GetByDocumentID obtiene la factura con líneas y XML original; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByDocumentID(ctx context.Context, documentID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `, raw_payload FROM invoices WHERE document_id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, documentID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	lines, err := r.linesByInvoice(ctx, `WHERE invoice_id = $1`, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines[inv.ID]
	return inv, nil
}

// List devuelve cabeceras (sin líneas ni XML) paginadas.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + invoiceOrder + ` LIMIT $1 OFFSET $2`
	return r.listHeaders(ctx, query, limit, offset)
}

func (r *InvoiceRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

// ListAllWithLines carga todas las facturas y sus líneas (exportación consolidada).
func (r *InvoiceRepo) ListAllWithLines(ctx context.Context) ([]*entity.Invoice, error) {
	invoices, err := r.listHeaders(ctx, `SELECT `+invoiceColumns+` FROM invoices `+invoiceOrder)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return invoices, nil
	}
	lines, err := r.linesByInvoice(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		inv.Lines = lines[inv.ID]
	}
	return invoices, nil
}

// Delete elimina por document_id; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, documentID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE document_id = $1`, documentID)
	if err != nil {
		return false, fmt.Errorf("delete invoice: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *InvoiceRepo) listHeaders(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows, false)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// linesByInvoice agrupa líneas por invoice_id conservando el orden del documento.
func (r *InvoiceRepo) linesByInvoice(ctx context.Context, where string, args ...any) (map[string][]entity.InvoiceLine, error) {
	query := `SELECT id, invoice_id, position, description, quantity, unit_price, line_total
		FROM invoice_lines ` + where + ` ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.InvoiceLine)
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Position, &l.Description, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		out[l.InvoiceID] = append(out[l.InvoiceID], l)
	}
	return out, rows.Err()
}

func scanInvoice(row scanner, withPayload bool) (*entity.Invoice, error) {
	var inv entity.Invoice
	var displayNumber *string
	var paymentForm string
	var breakdown []byte
	dest := []any{
		&inv.ID, &inv.DocumentID, &inv.DocumentType, &displayNumber,
		&inv.IssuerID, &inv.IssuerName, &inv.ReceiverID, &inv.ReceiverName, &inv.IssueDate,
		&inv.TotalAmount, &inv.TaxAmount, &inv.BaseAmount,
		&paymentForm, &inv.PaymentFormCode, &inv.PaymentMethodCode, &breakdown, &inv.CreatedAt,
	}
	if withPayload {
		dest = append(dest, &inv.RawPayload)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	inv.DisplayNumber = derefStr(displayNumber)
	inv.PaymentForm = entity.PaymentForm(paymentForm)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &inv.TaxBreakdown); err != nil {
			return nil, fmt.Errorf("decodificar desglose de impuestos: %w", err)
		}
	}
	return &inv, nil
}
