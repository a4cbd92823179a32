package middleware

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"skill-matrix/internal/domain/catalog"
	"skill-matrix/internal/pkg/jwt"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, catalog.Role(claims.Role))

		return c.Next()
	}
}

// RequireManager lets only manager tokens through. It must run after the
// auth middleware.
func RequireManager() fiber.Handler {
	return func(c fiber.Ctx) error {
		if Role(c) != catalog.RoleManager {
			return NewAppError(fiber.StatusForbidden, "Manager role required", nil, nil)
		}
		return c.Next()
	}
}

// RequireSelfOrManager lets managers through, and employees only when the
// :id route parameter is their own id.
func RequireSelfOrManager() fiber.Handler {
	return func(c fiber.Ctx) error {
		if Role(c) == catalog.RoleManager {
			return c.Next()
		}
		self, ok := UserID(c)
		if !ok || c.Params("id") != strconv.FormatInt(self, 10) {
			return Forbidden()
		}
		return c.Next()
	}
}

// CanRead reports whether the caller may see a record owned by ownerID:
// managers see everything, employees only their own.
func CanRead(c fiber.Ctx, ownerID int64) bool {
	if Role(c) == catalog.RoleManager {
		return true
	}
	self, ok := UserID(c)
	return ok && self == ownerID
}

func Forbidden() *AppError {
	return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
}

func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func Role(c fiber.Ctx) catalog.Role {
	r, _ := c.Locals(CtxRoleKey).(catalog.Role)
	return r
}

// Actor is the name written into audit stamps for the current request.
func Actor(c fiber.Ctx) string {
	if email, _ := c.Locals(CtxEmailKey).(string); email != "" {
		return email
	}
	return "anonymous"
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
