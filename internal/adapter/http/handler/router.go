package handler

import (
	"zeckit-faucet/internal/adapter/http/middleware"
	redisStore "zeckit-faucet/internal/adapter/storage/redis"
	"zeckit-faucet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	FaucetSvc      ports.FaucetService
	TokenSvc       ports.TokenService         // nil = admin routes disabled
	AuditSvc       ports.AuditService         // nil = audit logging disabled
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimitRule  middleware.RateLimitRule
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.MaxBodySize(64 << 10))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	rl := func(c *gin.Context) { c.Next() }
	if deps.RateLimitStore != nil {
		rl = middleware.RateLimiter(deps.RateLimitStore, middleware.RateLimitGroupRequest, deps.RateLimitRule, deps.Logger)
	}

	faucetHandler := NewFaucetHandler(deps.FaucetSvc)

	r.GET("/", faucetHandler.Root)
	r.GET("/health", HealthCheck(deps.FaucetSvc, deps.HealthCheckers...))
	r.GET("/stats", faucetHandler.GetStats)
	r.GET("/history", faucetHandler.GetHistory)
	r.GET("/address", faucetHandler.GetAddress)
	r.POST("/request", rl, faucetHandler.RequestFunds)

	// --- Admin routes (JWT) ---
	if deps.TokenSvc != nil {
		var limiter RateLimitResetter
		if deps.RateLimitStore != nil {
			limiter = deps.RateLimitStore
		}
		adminHandler := NewAdminHandler(deps.FaucetSvc, deps.AuditSvc, limiter)
		admin := r.Group("/admin", middleware.JWTAuth(deps.TokenSvc, deps.Logger))
		{
			admin.POST("/sync", adminHandler.Sync)
			admin.GET("/audit", adminHandler.ListAudit)
			admin.DELETE("/ratelimit/:ip", adminHandler.ResetRateLimit)
		}
	}

	return r
}
