package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

type AuthHandler struct {
	service *services.AuthService
	ttl     time.Duration
}

func NewAuthHandler(service *services.AuthService, ttl time.Duration) *AuthHandler {
	return &AuthHandler{
		service: service,
		ttl:     ttl,
	}
}

type tokenRequest struct {
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// Token godoc
// @Summary  Exchange the operator password for a bearer token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body tokenRequest true "Operator password"
// @Success  200 {object} tokenResponse
// @Failure  401 {object} map[string]string
// @Router   /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.service.Login(req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.ttl.Seconds()),
	})
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", h.Token)
	}
}
