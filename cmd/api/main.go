package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deskenvy/deskenvy-backend/internal/cache"
	"github.com/deskenvy/deskenvy-backend/internal/config"
	"github.com/deskenvy/deskenvy-backend/internal/handler"
	"github.com/deskenvy/deskenvy-backend/internal/middleware"
	"github.com/deskenvy/deskenvy-backend/internal/realtime"
	"github.com/deskenvy/deskenvy-backend/internal/repository/postgres"
	"github.com/deskenvy/deskenvy-backend/internal/repository/storage"
	"github.com/deskenvy/deskenvy-backend/internal/service"
	"github.com/deskenvy/deskenvy-backend/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize object storage
	imageRepo, err := storage.NewS3ImageRepository(context.Background(), cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize image storage")
	}

	// Feed cache is optional; without redis every read goes to the store
	var feedCache *cache.Cache
	if cfg.Redis.Addr != "" {
		feedCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Feed cache enabled")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	deviceRepo := postgres.NewDeviceRepository(pool)
	interactionRepo := postgres.NewInteractionRepository(pool)

	// Session manager and realtime hub
	sessions := session.NewManager([]byte(cfg.SessionSecret))
	hub := realtime.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo)
	imageService := service.NewImageService(imageRepo)
	feedService := service.NewFeedService(workspaceRepo, deviceRepo, userRepo, interactionRepo, feedCache)
	workspaceService := service.NewWorkspaceService(workspaceRepo, deviceRepo, imageService, feedService)
	interactionService := service.NewInteractionService(interactionRepo, workspaceRepo, deviceRepo, hub)

	// Session middleware and credential rate limiter
	sessionMiddleware := middleware.NewSessionMiddleware(sessions)
	limiter := middleware.NewRateLimiter()
	defer limiter.Stop()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, sessions)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, feedService)
	interactionHandler := handler.NewInteractionHandler(interactionService)
	profileHandler := handler.NewProfileHandler(feedService)
	activityHandler := handler.NewActivityHandler(hub, workspaceService, sessions, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware; credentials are allowed for the session cookie
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, sessionMiddleware, limiter, authHandler, workspaceHandler, interactionHandler, profileHandler, activityHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
