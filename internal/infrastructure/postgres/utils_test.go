package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "invoices_document_id_key"}

	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insertar factura: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("ERROR: código 23505 en el mensaje")), "solo cuenta el código de PgError")
	assert.False(t, isUniqueViolation(nil))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "x", derefStr(nullIfEmpty("x")))
	assert.Empty(t, derefStr(nil))
}
