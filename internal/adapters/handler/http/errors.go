package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStreakNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "streak not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, services.ErrAuthDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authentication is not configured"})
	default:
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
