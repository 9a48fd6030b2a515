package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rohith2506/wbso-time-tracker/internal/api/handler"
	"github.com/rohith2506/wbso-time-tracker/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	jwtSecret string,
	authHandler *handler.AuthHandler,
	entryHandler *handler.EntryHandler,
	historyHandler *handler.HistoryHandler,
) {
	// Correlation ID first so both the request logger and panic recovery see it
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Registration and login are the only unauthenticated operations
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.Auth(logger, jwtSecret), authHandler.Me)
		}

		// Time entry operations
		entries := v1.Group("/time-entries")
		entries.Use(middleware.Auth(logger, jwtSecret))
		{
			entries.POST("", entryHandler.Create)
			entries.GET("", entryHandler.List)
			entries.GET("/stats", entryHandler.Stats)
			entries.GET("/export", entryHandler.Export)
			entries.GET("/history", historyHandler.OwnerHistory)
			entries.PUT("/:id", entryHandler.Update)
			entries.DELETE("/:id", entryHandler.Delete)
			entries.GET("/:id/history", historyHandler.EntryHistory)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
