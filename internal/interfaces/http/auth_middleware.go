package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ofertare-api/internal/application/auth"
	"github.com/jhoicas/Ofertare-api/internal/application/dto"
	"github.com/jhoicas/Ofertare-api/pkg/jwt"
)

// Locals keys para la identidad de la sesión en Fiber.
const (
	LocalUserID    = "user_id"
	LocalEmail     = "email"
	LocalSessionID = "session_id"
)

// SessionChecker confirma que la sesión del token no fue cerrada (auth.AuthUseCase).
type SessionChecker interface {
	IsSessionActive(ctx context.Context, sessionID string) (bool, error)
}

// AuthMiddleware valida el Bearer Token JWT, comprueba que la sesión siga abierta y carga
// UserID, Email y SessionID en c.Locals. sessions nil omite la comprobación de revocación.
func AuthMiddleware(jwtSecret string, sessions SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
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
		s, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if sessions != nil {
			active, err := sessions.IsSessionActive(c.UserContext(), s.SessionID)
			if err != nil {
				return writeError(c, err)
			}
			if !active {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Code:    auth.CodeSessionExpired,
					Message: auth.Message(&auth.ProviderError{Code: auth.CodeSessionExpired}),
				})
			}
		}
		c.Locals(LocalUserID, s.UserID)
		c.Locals(LocalEmail, s.Email)
		c.Locals(LocalSessionID, s.SessionID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetEmail devuelve el email del token.
func GetEmail(c *fiber.Ctx) string { return localString(c, LocalEmail) }

// GetSessionID devuelve el id de la sesión del token.
func GetSessionID(c *fiber.Ctx) string { return localString(c, LocalSessionID) }

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
