package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"celebhub-backend/internal/shared/middleware"
	"celebhub-backend/internal/shared/response"
	"celebhub-backend/pkg/container"
)

const (
	adminLoginPath = "/admin/login"
	callbackPath   = "/api/v1/mpesa/callback"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = c.Config.Upload.MaxBytes

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestContext(),
		middleware.Logger(),
		middleware.Session(c.JWTManager, c.Config.Session.CookieName),
		middleware.CSRF(c.Config.Session.CookieName, callbackPath),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupCelebrityRoutes(v1, c)
		setupSubmissionRoutes(v1, c)
		setupOnboardingRoutes(v1, c)
		setupPaymentRoutes(v1, c)
	}

	setupAdminRoutes(router, c)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", c.UserHandler.Signup)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/logout", c.UserHandler.Logout)
		auth.GET("/me", middleware.RequireAccount(), c.UserHandler.Me)
	}
}

// ========================================
// PUBLIC CATALOGUE ROUTES
// ========================================
func setupCelebrityRoutes(v1 *gin.RouterGroup, c *container.Container) {
	celebrities := v1.Group("/celebrities")
	{
		celebrities.GET("/featured", c.CelebrityHandler.ListFeatured)
		celebrities.GET("", c.CelebrityHandler.List)
		celebrities.GET("/:slug", c.CelebrityHandler.GetBySlug)
	}
}

func setupSubmissionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/submissions", c.SubmissionHandler.Create)
}

func setupOnboardingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/onboarding", c.OnboardingHandler.Create)
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.POST("/pay", middleware.RequireAccount(), c.PaymentHandler.Pay)

	// Called by the gateway: no session, exempt from CSRF
	v1.POST("/mpesa/callback", c.PaymentHandler.Callback)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(router *gin.Engine, c *container.Container) {
	admin := router.Group("/admin")

	// Unauthenticated admin requests are redirected here
	admin.GET("/login", func(ctx *gin.Context) {
		response.Success(ctx, http.StatusOK, "Admin login required", gin.H{
			"login": "POST " + adminLoginPath,
		})
	})
	admin.POST("/login", c.UserHandler.AdminLogin)
	admin.POST("/logout", c.UserHandler.Logout)

	protected := admin.Group("")
	protected.Use(middleware.RequireAdmin(c.Gate, adminLoginPath))
	{
		celebrities := protected.Group("/celebrities")
		{
			celebrities.GET("", c.CelebrityHandler.List)
			celebrities.POST("", c.CelebrityHandler.Create)
			celebrities.PUT("/:id", c.CelebrityHandler.Update)
			celebrities.DELETE("/:id", c.CelebrityHandler.Delete)
			celebrities.POST("/:id/feature", c.CelebrityHandler.GrantFeature)
			celebrities.DELETE("/:id/feature", c.CelebrityHandler.RevokeFeature)
		}

		submissions := protected.Group("/submissions")
		{
			submissions.GET("", c.SubmissionHandler.List)
			submissions.GET("/:id", c.SubmissionHandler.Get)
			submissions.POST("/:id/approve", c.SubmissionHandler.Approve)
			submissions.POST("/:id/reject", c.SubmissionHandler.Reject)
		}

		onboarding := protected.Group("/onboarding")
		{
			onboarding.GET("", c.OnboardingHandler.List)
			onboarding.GET("/export", c.OnboardingHandler.Export)
		}
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{}
		for name, err := range c.Ping(checkCtx) {
			if err != nil {
				checks[name] = err.Error()
				// Redis is optional; only the store decides readiness
				if name == "store" {
					status = http.StatusServiceUnavailable
				}
				continue
			}
			checks[name] = "ok"
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"backend": c.Stores.Backend,
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
