package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	// SessionLocalKey is the key under which the validated session is stored
	// in Fiber's context locals.
	SessionLocalKey = "session"
)

// Session is the caller identity extracted from a bearer token. Handlers read
// it from locals instead of re-deriving identity per view.
type Session struct {
	UserID string
	Email  string
	Role   string
}

// Claims is the JWT payload carried by session tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates bearer tokens and enforces role capabilities at the route
// boundary. Token issuance is handled elsewhere; this guard only validates.
type Auth struct {
	secret []byte
}

// NewAuth creates an Auth guard with the given HMAC signing secret.
func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// RequireRole returns a middleware admitting only callers whose token carries
// the given role. The validated session is stored in context locals.
func (a *Auth) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeAuthError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authorization header is required")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeAuthError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			return writeAuthError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
		}
		if claims.Role != role {
			return writeAuthError(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient role")
		}

		c.Locals(SessionLocalKey, Session{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		return c.Next()
	}
}

// writeAuthError mirrors the handler package's error payload so the guard can
// respond without importing it (the handler package imports middleware).
func writeAuthError(c *fiber.Ctx, status int, code, message string) error {
	rid, _ := c.Locals(RequestIDLocalKey).(string)
	return c.Status(status).JSON(fiber.Map{
		"request_id": rid,
		"error":      fiber.Map{"code": code, "message": message},
	})
}
