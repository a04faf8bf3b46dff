package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizhost/internal/app"
	"quizhost/internal/config"
	"quizhost/internal/infra/memory"
	pginfra "quizhost/internal/infra/postgres"
	redisinfra "quizhost/internal/infra/redis"
	"quizhost/internal/pkg/logger"
	transport "quizhost/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz-hosting server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := pginfra.NewStore(pool)
	loader := pginfra.NewContentLoader(store)

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 2*time.Hour)

	var contentCache interface {
		app.ContentRepository
		app.ContentInvalidator
	}
	var sessions app.SessionRegistry
	if redisClient != nil {
		contentCache = redisinfra.NewContentCache(redisClient, loader, quizTTL)
		sessions = redisinfra.NewSessionRegistry(redisClient, sessionTTL)
	} else {
		contentCache = memory.NewContentCache(loader, quizTTL)
		sessions = memory.NewSessionRegistry()
	}

	attempts := app.NewAttemptService(store, log)
	catalog := app.NewCatalogService(store, contentCache, log)
	questions := app.NewQuestionService(store, store, contentCache, log)
	registrations := app.NewRegistrationService(store)
	maintenance := app.NewMaintenanceService(store, log)
	users := app.NewUserService(store, app.AdminCredentials{
		Email:    cfg.Auth.AdminEmail,
		Password: cfg.Auth.AdminPassword,
	}, log)
	take := app.NewTakeService(contentCache, sessions, attempts, log)

	tokens := transport.NewTokenManager(cfg.Auth.JWTSecret, config.TTLDuration(cfg.Auth.CookieTTL, 24*time.Hour))

	router := transport.NewRouter(transport.RouterDeps{
		Catalog:        catalog,
		Questions:      questions,
		Attempts:       attempts,
		Registrations:  registrations,
		Maintenance:    maintenance,
		Users:          users,
		Take:           take,
		Tokens:         tokens,
		Log:            log,
		Mode:           cfg.Server.Mode,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		SecureCookies:  cfg.Auth.SecureCookies,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting quizhost", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
