package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/kanso-streaks/docs"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-streaks/internal/adapters/metrics"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/services"
)

// Pinger is satisfied by *sqlx.DB. It is nil when streaks live in memory.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler   *AuthHandler
	StreakHandler *StreakHandler
	SyncHandler   *SyncHandler
	TokenService  *services.TokenService
	Metrics       *metrics.Recorder
	DB            Pinger
	Redis         *redis.Client
	RateLimit     int
	RateWindow    time.Duration
	StartTime     time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateWindow))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		dbStatus := "disabled"
		if deps.DB != nil {
			dbStatus = "connected"
			if err := deps.DB.PingContext(ctx); err != nil {
				dbStatus = "unreachable"
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				redisStatus = "unreachable"
			}
		}

		status, statusCode := "ok", 200
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			status, statusCode = "degraded", 503
		}

		c.JSON(statusCode, gin.H{
			"status":   status,
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.AuthHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.TokenService))
	{
		deps.StreakHandler.RegisterRoutes(protected)
		deps.SyncHandler.RegisterRoutes(protected)
	}

	return router
}
