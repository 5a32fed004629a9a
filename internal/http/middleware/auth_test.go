package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, role string, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: "user-1",
		Email:  "admin@example.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authTestApp(t *testing.T) *fiber.App {
	t.Helper()
	guard := NewAuth(testSecret)
	app := fiber.New()
	app.Post("/admin", guard.RequireRole(RoleAdmin), func(c *fiber.Ctx) error {
		sess, ok := c.Locals(SessionLocalKey).(Session)
		require.True(t, ok)
		return c.JSON(sess)
	})
	return app
}

func TestRequireRole(t *testing.T) {
	app := authTestApp(t)

	t.Run("valid admin token passes and exposes the session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signedToken(t, RoleAdmin, testSecret, time.Hour))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var sess Session
		json.NewDecoder(resp.Body).Decode(&sess)
		assert.Equal(t, "user-1", sess.UserID)
		assert.Equal(t, RoleAdmin, sess.Role)
	})

	t.Run("bearer scheme is case-insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "bearer "+signedToken(t, RoleAdmin, testSecret, time.Hour))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Token abc")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signedToken(t, RoleAdmin, "other-secret", time.Hour))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signedToken(t, RoleAdmin, testSecret, -time.Hour))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("insufficient role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signedToken(t, RoleUser, testSecret, time.Hour))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "FORBIDDEN", body.Error.Code)
	})
}
