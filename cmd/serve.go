package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shym0608/News-Panel/internal/config"
	"github.com/Shym0608/News-Panel/internal/feed"
	"github.com/Shym0608/News-Panel/internal/home"
	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/media"
	"github.com/Shym0608/News-Panel/internal/middleware"
	"github.com/Shym0608/News-Panel/internal/session"
	"github.com/Shym0608/News-Panel/internal/storage"
	"github.com/Shym0608/News-Panel/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the portal",
		Action: serve,
	}
}

func serve(_ *cli.Context) error {
	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: cfg.LogFile,
		Pretty: cfg.LogPretty,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log := logger.Get()
	log.Info().
		Str("env", cfg.Env).
		Str("api", cfg.APIBaseURL).
		Str("media", cfg.MediaBaseURL).
		Msg("Starting news panel...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session token store
	store, err := newTokenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}
	defer func() {
		log.Info().Msg("Closing session store...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing session store")
		}
	}()

	sessions := session.NewManager(store)
	go func() {
		if err := sessions.Relay(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("Session event relay stopped")
		}
	}()

	assets, err := newAssetStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init asset store: %w", err)
	}

	backend := feed.NewClient(feed.Config{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.BackendTimeout,
		RetryCount:     cfg.BackendRetryCount,
		RetryWait:      cfg.BackendRetryWait,
		LiveVideoLimit: cfg.LiveVideoLimit,
	})

	handlers := web.NewHandlers(web.Deps{
		Backend:  backend,
		Resolver: media.NewResolver(cfg.MediaBaseURL),
		Sessions: sessions,
		Homes: home.NewRegistry(func() *home.Controller {
			return home.NewController(backend, cfg.FilterPageSize)
		}, cfg.ControllerIdleTTL),
		Assets:       assets,
		CookieName:   cfg.SessionCookie,
		CookieSecure: cfg.CookieSecure,
		SessionTTL:   cfg.SessionTTL,
	})

	// Create Fiber app with custom config. No write timeout: session event
	// streams stay open.
	app := fiber.New(fiber.Config{
		AppName:      "news-panel",
		ReadTimeout:  cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		Views:        web.NewEngine(),
		ErrorHandler: middleware.NewErrorHandler(web.ErrorPage),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/session/events"
		},
	}))

	web.SetupRoutes(app, handlers)

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	handlers.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
	return nil
}

func newTokenStore(ctx context.Context, cfg *config.Config) (session.TokenStore, error) {
	if cfg.SessionBackend == config.BackendMemory {
		logger.Get().Warn().Msg("Using in-memory session store, logins are lost on restart")
		return session.NewMemoryStore(), nil
	}
	return session.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix, cfg.SessionTTL)
}

func newAssetStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.AssetBackend == config.BackendS3 {
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.R2URL(),
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
			Bucket:    cfg.R2Bucket,
		})
	}
	return storage.NewLocalStore(cfg.AssetPath)
}
