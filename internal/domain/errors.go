package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrExtraction   = errors.New("documento fiscal no extraíble")
	ErrEmptyBatch   = errors.New("lote vacío")
)

// SchemaError indica que faltan columnas obligatorias en la entrada tabular.
// Aborta el lote completo; no hay procesamiento parcial.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("faltan columnas obligatorias: %s", strings.Join(e.Missing, ", "))
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidInput
}

// PersistenceError envuelve una falla del almacenamiento durante el guardado.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
