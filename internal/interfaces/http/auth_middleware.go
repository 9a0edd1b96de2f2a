package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-rfid-api/internal/application/dto"
	"github.com/jhoicas/wms-rfid-api/internal/domain"
	"github.com/jhoicas/wms-rfid-api/internal/domain/entity"
)

// Locals keys para la identidad del empleado en Fiber.
const (
	LocalEmployeeID = "employee_id"
	LocalRole       = "role"
)

// HeaderAPIKey credencial alternativa al Bearer token.
const HeaderAPIKey = "X-API-Key"

// Authenticator resuelve una credencial a la identidad del empleado.
// Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	AuthenticateAPIKey(ctx context.Context, raw string) (entity.Principal, error)
	AuthenticateToken(token string) (entity.Principal, error)
}

// AuthMiddleware acepta X-API-Key o Authorization: Bearer <jwt> y deja
// EmployeeID y Role en c.Locals.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			p   entity.Principal
			err error
		)
		if key := c.Get(HeaderAPIKey); key != "" {
			p, err = authn.AuthenticateAPIKey(c.Context(), key)
		} else {
			authHeader := c.Get("Authorization")
			if authHeader == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization o X-API-Key requerido"})
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
			}
			p, err = authn.AuthenticateToken(tokenString)
		}
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "credencial inválida o expirada"})
			}
			return writeError(c, err)
		}
		c.Locals(LocalEmployeeID, p.EmployeeID)
		c.Locals(LocalRole, p.Role)
		return c.Next()
	}
}

// RequireRole corta con 403 si el rol del contexto no está entre los permitidos.
// Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol " + role + " no tiene acceso a este recurso"})
	}
}

// GetEmployeeID devuelve el EmployeeID del contexto (después del middleware de auth).
func GetEmployeeID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmployeeID).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// Principal arma la identidad que reciben los casos de uso.
func Principal(c *fiber.Ctx) entity.Principal {
	return entity.Principal{EmployeeID: GetEmployeeID(c), Role: GetRole(c)}
}
