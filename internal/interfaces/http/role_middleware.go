package http

import (
	"slices"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
)

// RequireRole devuelve un middleware Fiber que exige que el rol del token esté entre
// allowed. Debe usarse DESPUÉS de AuthMiddleware (necesita LocalRole).
//
// Comportamiento:
//   - 401 Unauthorized → el token no trae el claim de rol.
//   - 403 Forbidden    → el rol no está permitido para la ruta.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye rol",
			})
		}
		if !slices.Contains(allowed, role) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no tiene acceso a este recurso",
			})
		}
		return c.Next()
	}
}
