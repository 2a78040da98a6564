// @title                       Khatma Sync Engine API
// @version                     1.0
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/handler/http/docs"
	"github.com/comitanigiacomo/khatma-sync-engine/internal/adapters/handler/http/middleware"
)

// Pinger reports store reachability for /health. *sqlx.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	ProgressHandler *ProgressHandler
	StreakHandler   *StreakHandler
	PageHandler     *PageHandler
	RamadanHandler  *RamadanHandler
	StatsHandler    *StatsHandler
	Resolver        middleware.UserResolver
	DB              Pinger
	Redis           *redis.Client
	StartTime       time.Time
	RateLimit       int
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		dbStatus := "connected"
		if deps.DB == nil || deps.DB.PingContext(c.Request.Context()) != nil {
			dbStatus = "unreachable"
		}

		redisStatus := "connected"
		if deps.Redis == nil || deps.Redis.Ping(c.Request.Context()).Err() != nil {
			redisStatus = "unreachable"
		}

		statusCode := 200
		if dbStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = 503
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"database": dbStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	// Limited per IP before login, per user after it.
	public := apiV1.Group("")
	protected := apiV1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Resolver))
	if deps.Redis != nil && deps.RateLimit > 0 {
		limiter := middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute)
		public.Use(limiter)
		protected.Use(limiter)
	}

	deps.AuthHandler.RegisterRoutes(public)
	deps.ProgressHandler.RegisterRoutes(protected)
	deps.StreakHandler.RegisterRoutes(protected)
	deps.PageHandler.RegisterRoutes(protected)
	deps.RamadanHandler.RegisterRoutes(protected)
	deps.StatsHandler.RegisterRoutes(protected)

	return router
}
