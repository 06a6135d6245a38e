package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/oura-bridge/internal/config"
	"github.com/ehr/oura-bridge/internal/domain/link"
	"github.com/ehr/oura-bridge/internal/domain/metrics"
	"github.com/ehr/oura-bridge/internal/domain/webhook"
	"github.com/ehr/oura-bridge/internal/platform/keystore"
	"github.com/ehr/oura-bridge/internal/platform/middleware"
	"github.com/ehr/oura-bridge/internal/platform/oura"
)

const serviceName = "oura-bridge"

func main() {
	rootCmd := &cobra.Command{
		Use:   "oura-server",
		Short: "Oura wearable bridge service",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Oura bridge HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres credential table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrate")
			}

			ctx := context.Background()
			pool, err := keystore.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := keystore.EnsureSchema(ctx, pool); err != nil {
				return err
			}
			fmt.Println("oura_credentials table is ready.")
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}

	// Credential store
	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer store.Close()
	logger.Info().Str("backend", cfg.ResolvedStoreBackend()).Msg("credential store ready")

	// Services
	linkSvc := link.NewService(store)
	metricsSvc := metrics.NewService(linkSvc, clientFactory(cfg))
	verifier := webhook.NewVerifier(cfg.OuraVerificationToken, cfg.OuraClientSecret)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(cfg, logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":    "ok",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Routes
	api := e.Group("")
	link.NewHandler(linkSvc, logger).RegisterRoutes(api)
	metrics.NewHandler(metricsSvc, logger).RegisterRoutes(api)
	webhook.NewHandler(verifier, logger).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// openStore selects the credential store backend from configuration.
func openStore(ctx context.Context, cfg *config.Config) (keystore.Store, error) {
	switch backend := cfg.ResolvedStoreBackend(); backend {
	case "memory":
		return keystore.NewMemoryStore(), nil
	case "file":
		return keystore.OpenFileStore(cfg.StoreFile)
	case "redis":
		return keystore.OpenRedisStore(ctx, cfg.RedisURL)
	case "postgres":
		pool, err := keystore.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return keystore.NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// clientFactory routes the demo credential to the mock generator and
// everything else to the real API.
func clientFactory(cfg *config.Config) metrics.ClientFactory {
	timeout := time.Duration(cfg.OuraTimeoutSeconds) * time.Second
	mock := oura.NewMockClient(nil)
	return func(apiKey string) oura.Client {
		if apiKey == cfg.OuraDemoKey {
			return mock
		}
		return oura.NewHTTPClient(cfg.OuraBaseURL, apiKey, timeout)
	}
}

// errorHandler renders errors as {"error": {"message": ...}}. Internal
// details are exposed only outside production mode.
func errorHandler(cfg *config.Config, logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			}
		} else if cfg.IsDev() {
			message = err.Error()
		}

		body := map[string]any{"error": map[string]any{"message": message}}
		if jsonErr := c.JSON(code, body); jsonErr != nil {
			logger.Error().Err(jsonErr).Msg("failed to write error response")
		}
	}
}
