package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP con dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var schemaErr *domain.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SCHEMA", Message: schemaErr.Error()})
	case errors.Is(err, domain.ErrEmptyBatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_BATCH", Message: "no se recibieron archivos"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// ErrorHandler manejador de errores de Fiber para errores no capturados por los handlers
// (body demasiado grande, rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(fe.Code), Message: fe.Message})
	}
	return writeError(c, err)
}
