package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

func setupAuthRouter(t *testing.T, hash string) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := services.NewTokenService("test-secret", "kanso-streaks", time.Hour)
	h := handler.NewAuthHandler(services.NewAuthService(hash, tokens), time.Hour)

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r, tokens
}

func TestAuthHandler_Token(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name       string
		hash       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"Valid password", string(hash), `{"password":"correct-horse"}`, http.StatusOK, "Bearer"},
		{"Wrong password", string(hash), `{"password":"battery-staple"}`, http.StatusUnauthorized, "invalid credentials"},
		{"Missing password", string(hash), `{}`, http.StatusBadRequest, "error"},
		{"Malformed JSON", string(hash), `{"password":`, http.StatusBadRequest, "error"},
		{"Auth not configured", "", `{"password":"correct-horse"}`, http.StatusServiceUnavailable, "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, tokens := setupAuthRouter(t, tt.hash)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)

			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp struct {
				Token     string `json:"token"`
				ExpiresIn int64  `json:"expires_in"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, int64(3600), resp.ExpiresIn)

			subject, err := tokens.ValidateToken(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, services.OperatorSubject, subject)
		})
	}
}
