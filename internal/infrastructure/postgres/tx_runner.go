package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/auditoria-fiscal/internal/application/invoicing"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
	"github.com/jhoicas/auditoria-fiscal/internal/domain/repository"
)

var _ invoicing.ImportTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunImport inicia una transacción, ejecuta fn con el repositorio de facturas atado a la tx y
// hace Commit, o Rollback si fn falla (cabecera y líneas quedan juntas o no quedan).
func (r *TxRunner) RunImport(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return &domain.PersistenceError{Op: "begin", Err: err}
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewInvoiceRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &domain.PersistenceError{Op: "commit", Err: fmt.Errorf("commit transaction: %w", err)}
	}
	return nil
}
