package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/auditoria-fiscal/internal/application/dto"
	"github.com/jhoicas/auditoria-fiscal/pkg/jwt"
)

// Locals keys para el sujeto y el rol del token en Fiber.
const (
	LocalSubject = "subject"
	LocalRole    = "role"
)

// AnonymousSubject sujeto asignado cuando la API corre sin JWT_SECRET.
const AnonymousSubject = "anonymous"

// AuthMiddleware valida el Bearer Token JWT y deja sujeto y rol en c.Locals.
// Con jwtSecret vacío la API queda abierta: toda petición actúa como admin.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	if jwtSecret == "" {
		return func(c *fiber.Ctx) error {
			c.Locals(LocalSubject, AnonymousSubject)
			c.Locals(LocalRole, jwt.RoleAdmin)
			return c.Next()
		}
	}
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		subject, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSubject, subject)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// GetSubject devuelve el sujeto del contexto (después del middleware de auth).
func GetSubject(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalSubject).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
