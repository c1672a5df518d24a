package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogapi/internal/app"
	"blogapi/internal/auth"
	"blogapi/internal/config"
	"blogapi/internal/middleware"
	"blogapi/internal/seed"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.OpenLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageBackend,
		"table_prefix", cfg.TablePrefix,
		"category_mode", cfg.CategoryMode,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage and services
	storage, err := app.OpenStorage(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer storage.Close()

	svcs := app.NewServices(storage, cfg.CategoryMode, logger)

	// The memory backend starts empty; load fixtures so there is an admin to log in as
	if cfg.StorageBackend == config.StorageBackendMemory && cfg.SeedFile != "" {
		fixtures, err := seed.LoadFixtures(cfg.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load fixtures: %v", err)
		}
		seeder := seed.NewSeeder(svcs.Users, svcs.Users, svcs.Categories, svcs.Posts, svcs.Comments, logger)
		if _, err := seeder.Apply(ctx, fixtures); err != nil {
			log.Fatalf("Failed to seed memory storage: %v", err)
		}
	}

	// Token verification: self-issued HS256, or an external issuer's JWKS
	deps := app.HTTPDeps{
		Services: svcs,
		Metrics:  middleware.NewMetrics(),
		Logger:   logger,
	}
	if cfg.IssuesTokens() {
		authority, err := auth.NewHMACAuthority(cfg.JWTSecret, cfg.AccessTokenTTL, logger)
		if err != nil {
			log.Fatalf("Failed to create token authority: %v", err)
		}
		deps.Verifier = authority
		deps.Issuer = authority

		limiter := middleware.NewRateLimiter(cfg.TokenRatePerSecond, cfg.TokenRateBurst, cfg.TrustProxyHeaders)
		go limiter.Run(ctx)
		deps.Limiter = limiter
	} else {
		verifier, err := auth.NewJWKSVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
		deps.Verifier = verifier
	}

	handler := app.NewHTTPHandler(deps)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	handler = corsHandler.Handler(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
