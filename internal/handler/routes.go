package handler

import (
	"net/http"

	"github.com/deskenvy/deskenvy-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, sessions *middleware.SessionMiddleware, limiter *middleware.RateLimiter, authHandler *AuthHandler, workspaceHandler *WorkspaceHandler, interactionHandler *InteractionHandler, profileHandler *ProfileHandler, activityHandler *ActivityHandler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// API version 1
	api := e.Group("/api/v1")

	// Auth routes; the credential endpoints are rate limited per IP
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup, middleware.RateLimitMiddleware(limiter))
	auth.POST("/signin", authHandler.Signin, middleware.RateLimitMiddleware(limiter))
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", authHandler.Me, sessions.Required())

	// Workspace routes; browse and detail work anonymously, writes need a
	// session
	workspaces := api.Group("/workspaces")
	workspaces.GET("", workspaceHandler.List, sessions.Optional())
	workspaces.GET("/:id", workspaceHandler.Get, sessions.Optional())
	workspaces.POST("", workspaceHandler.Create, sessions.Required())
	workspaces.PUT("/:id", workspaceHandler.Update, sessions.Required())
	workspaces.DELETE("/:id", workspaceHandler.Delete, sessions.Required())
	workspaces.POST("/:id/like", interactionHandler.ToggleLike, sessions.Required())
	workspaces.POST("/:id/save", interactionHandler.ToggleSave, sessions.Required())
	workspaces.GET("/:id/activity", activityHandler.Subscribe)

	// Device toggle routes (protected)
	devices := api.Group("/devices")
	devices.POST("/:id/like", interactionHandler.ToggleDeviceLike, sessions.Required())
	devices.POST("/:id/save", interactionHandler.ToggleSaveDevice, sessions.Required())

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.GET("", profileHandler.GetProfile, sessions.Required())
}
