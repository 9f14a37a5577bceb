package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/nback-api/internal/metrics"
	"github.com/yourusername/nback-api/internal/middleware"
	"github.com/yourusername/nback-api/internal/service"
)

// maxRecentLimit - верхняя граница ?limit= для /nback/recent
const maxRecentLimit = 50

// Routes собирает обработчики и middleware для регистрации маршрутов
type Routes struct {
	Auth    *AuthHandler
	Results *ResultHandler
	Health  *HealthHandler

	AuthMiddleware *middleware.AuthMiddleware

	// RateLimiter == nil отключает ограничение частоты signup/login
	RateLimiter *middleware.RateLimiter
	RateLimit   middleware.RateLimitConfig

	// RestrictListings закрывает /auth/users и /nback/all для всех, кроме администраторов
	RestrictListings bool
	RecentLimit      int
}

// Register настраивает маршруты API на router
func (r Routes) Register(router *gin.Engine) {
	router.Use(metrics.Middleware())

	requireAuth := r.AuthMiddleware.RequireAuth()

	listingGuard := []gin.HandlerFunc{}
	if r.RestrictListings {
		listingGuard = append(listingGuard, requireAuth, r.AuthMiddleware.AdminOnly())
	}

	authLimit := []gin.HandlerFunc{}
	if r.RateLimiter != nil {
		authLimit = append(authLimit, r.RateLimiter.Limit(r.RateLimit))
	}

	recentLimit := r.RecentLimit
	if recentLimit <= 0 {
		recentLimit = service.DefaultRecentLimit
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", chain(authLimit, r.Auth.Signup)...)
		authGroup.POST("/login", chain(authLimit, r.Auth.Login)...)
		authGroup.GET("/", requireAuth, r.Auth.GetCurrentUser)
		authGroup.GET("/users", chain(listingGuard, r.Auth.ListUsers)...)
	}

	nback := router.Group("/nback")
	{
		nback.GET("/all", chain(listingGuard, r.Results.ListAll)...)

		authed := nback.Group("", requireAuth)
		authed.POST("/", r.Results.Create)
		authed.GET("/", r.Results.List)
		authed.PUT("/", r.Results.Update)
		authed.GET("/recent", middleware.ExtractIntQuery("limit", RecentLimitKey, recentLimit, 1, maxRecentLimit), r.Results.Recent)
		authed.GET("/export", r.Results.Export)
	}

	if r.Health != nil {
		router.GET("/healthz", r.Health.Check)
	}
	router.GET("/metrics", metrics.Handler())
}

// chain возвращает новую цепочку, не разделяя массив с mw
func chain(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, h)
}
