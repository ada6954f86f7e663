package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"navjivan-backend/internal/config"
	"navjivan-backend/internal/handlers"
	"navjivan-backend/internal/middleware"
	"navjivan-backend/internal/notify"
	"navjivan-backend/internal/observability"
	"navjivan-backend/internal/repository"
	"navjivan-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version is set at build time with -ldflags "-X navjivan-backend/cmd.Version=..."
var Version = "dev"

type stores struct {
	users services.UserStore
	duos  services.DuoStore
	close func()
}

func Run() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	configPath := os.Getenv("NAVJIVAN_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log)

	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.Tracing, Version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up tracing")
	}

	st, err := openStores(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer st.close()

	dispatcher, err := newDispatcher(cfg.Push)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up push notifications")
	}

	var encourager services.Encourager
	if cfg.LLM.APIKey != "" {
		encourager = services.NewLLMEncourager(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.Timeout)
		log.Info().Str("model", cfg.LLM.Model).Msg("Generated encouragement enabled")
	}

	// Initialize services
	userService := services.NewUserService(st.users, cfg.JWT.Secret)
	duoService := services.NewDuoService(st.duos, st.users, dispatcher, encourager)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	duoHandler := handlers.NewDuoHandler(duoService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			if cfg.RateLimit.Enabled {
				r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Handler)
			}
			r.Put("/users/push-token", userHandler.UpdatePushToken)
			r.Route("/duo", duoHandler.Routes)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("version", Version).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Let queued notifications go out before the process exits
	if err := dispatcher.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Push notifications still in flight at shutdown")
	}

	if err := shutdownTracing(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited")
}

// openStores connects the configured storage backend
func openStores(ctx context.Context, cfg config.DatabaseConfig) (*stores, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &stores{
			users: repository.NewMemoryUserStore(),
			duos:  repository.NewMemoryDuoStore(),
			close: func() {},
		}, nil
	}

	// Connect to database
	db, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &stores{
		users: repository.NewUserRepository(db),
		duos:  repository.NewDuoRepository(db),
		close: db.Close,
	}, nil
}

// newDispatcher builds the push transports that are configured
func newDispatcher(cfg config.PushConfig) (*notify.Dispatcher, error) {
	router := &notify.Router{
		Expo: notify.NewExpoSender(cfg.Expo.URL, cfg.Expo.AccessToken),
	}

	if cfg.APNs.Enabled() {
		apns, err := notify.NewAPNsSender(notify.APNsOptions{
			KeyPath:    cfg.APNs.KeyPath,
			KeyID:      cfg.APNs.KeyID,
			TeamID:     cfg.APNs.TeamID,
			Topic:      cfg.APNs.Topic,
			Production: cfg.APNs.Production,
		})
		if err != nil {
			return nil, err
		}
		router.APNs = apns
		log.Info().Bool("production", cfg.APNs.Production).Msg("APNs transport enabled")
	}

	return notify.NewDispatcher(router, cfg.Timeout), nil
}

// setupLogger configures zerolog logger
func setupLogger(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch cfg.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
