package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streamtube/streamtube/internal/auth"
	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/middleware"
	"github.com/streamtube/streamtube/internal/tracing"
)

func setupRouter(api *API, tokens *auth.TokenService, logger *logging.Logger, tracingEnabled bool) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.Metrics())
	if tracingEnabled {
		router.Use(tracing.Middleware())
	}

	// Health check
	router.GET("/health", api.healthCheck)

	// Credential endpoints share one limiter to slow down guessing.
	limiter := middleware.NewRateLimiter(5, 10)

	users := router.Group("/api/v1/users")
	{
		users.POST("/register", middleware.RateLimit(limiter), api.register)
		users.POST("/login", middleware.RateLimit(limiter), api.login)
		users.POST("/refresh-token", middleware.RateLimit(limiter), api.refreshToken)

		users.POST("/logout", middleware.RequireAuth(tokens), api.logout)
		users.POST("/changepassword", middleware.RequireAuth(tokens), api.changePassword)
		users.GET("/me", middleware.RequireAuth(tokens), api.getCurrentUser)
		users.PATCH("/update-account", middleware.RequireAuth(tokens), api.updateAccount)
		users.PATCH("/avatar", middleware.RequireAuth(tokens), api.updateAvatar)
		users.PATCH("/cover-image", middleware.RequireAuth(tokens), api.updateCoverImage)

		users.GET("/c/:username", middleware.OptionalAuth(tokens), api.channelProfile)
		users.GET("/history", middleware.RequireAuth(tokens), api.watchHistory)
		users.POST("/subscribe/:channelId", middleware.RequireAuth(tokens), api.toggleSubscription)
	}

	return router
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.db.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
