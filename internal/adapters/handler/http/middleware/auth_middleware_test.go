package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Parallel()

	setupRouter := func(tokens TokenValidator) *gin.Engine {
		router := gin.New()
		router.Use(AuthMiddleware(tokens))
		router.GET("/protected", func(c *gin.Context) {
			subject, ok := GetSubject(c)
			if !ok {
				c.String(http.StatusInternalServerError, "subject not found in context")
				return
			}
			c.String(http.StatusOK, "Hello "+subject)
		})
		return router
	}

	secret := "test-secret-middleware"
	issuer := "test-issuer"

	t.Run("Success: Valid Token", func(t *testing.T) {
		t.Parallel()
		tokenService := services.NewTokenService(secret, issuer, 1*time.Hour)
		router := setupRouter(tokenService)

		validToken, _ := tokenService.GenerateToken(services.OperatorSubject)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+validToken)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Hello operator", w.Body.String())
	})

	t.Run("Success: Lowercase scheme", func(t *testing.T) {
		t.Parallel()
		tokenService := services.NewTokenService(secret, issuer, 1*time.Hour)
		router := setupRouter(tokenService)

		validToken, _ := tokenService.GenerateToken("cli")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer "+validToken)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Fail: Missing Authorization Header", func(t *testing.T) {
		t.Parallel()
		router := setupRouter(services.NewTokenService(secret, issuer, 1*time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "authorization header required")
	})

	t.Run("Fail: Invalid Header Format", func(t *testing.T) {
		t.Parallel()
		router := setupRouter(services.NewTokenService(secret, issuer, 1*time.Hour))

		formats := []string{
			"Bearer",
			"Token 12345",
			"Bearer12345",
			"Bearer ",
			"Bearer a b",
		}

		for _, h := range formats {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", h)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code, "Should fail for header: "+h)
		}
	})

	t.Run("Fail: Token with Wrong Signature (Tampered)", func(t *testing.T) {
		t.Parallel()
		serviceMiddleware := services.NewTokenService(secret, issuer, 1*time.Hour)
		serviceAttacker := services.NewTokenService("wrong-secret", issuer, 1*time.Hour)

		router := setupRouter(serviceMiddleware)
		badToken, _ := serviceAttacker.GenerateToken("attacker")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+badToken)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})

	t.Run("Fail: Expired Token", func(t *testing.T) {
		t.Parallel()
		expiredService := services.NewTokenService(secret, issuer, -1*time.Second)
		router := setupRouter(expiredService)

		expiredToken, _ := expiredService.GenerateToken("expired")

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+expiredToken)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid or expired token")
	})
}
