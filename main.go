package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"roster/config"
	"roster/database"
	"roster/email"
	"roster/handlers"
	"roster/middleware"
	"roster/scheduler"
	"roster/store"
	"roster/streaming"
)

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func newMailer(ctx context.Context, cfg *config.Config) (email.EmailSender, error) {
	if cfg.Email.Sender == "" {
		log.Warn().Msg("No SES sender configured, invite emails will only be logged")
		return email.LogSender{Logger: log.Logger}, nil
	}
	return email.NewSESClient(ctx, cfg.Email.AccessKeyID, cfg.Email.SecretAccessKey, cfg.Email.Region, cfg.Email.Sender)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogger(cfg)

	// Initialize JWT secret
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize database
	db, err := database.Init(cfg.DatabaseURL, cfg.DatabaseLogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mailer, err := newMailer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize email client")
	}

	pool := store.NewPool(database.NewRepository(db), log.Logger)

	sched, err := scheduler.NewScheduler(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := sched.AddStoreEviction(pool, cfg.StoreSweepInterval, cfg.StoreIdleTimeout); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule store eviction")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:         log.Logger,
		DB:             db,
		RequestTimeout: cfg.RequestTimeout,
		Auth:           handlers.NewAuthHandler(cfg, db, pool),
		Roster:         handlers.NewRosterHandler(pool),
		Invites:        handlers.NewInviteHandler(cfg, pool, mailer),
		Stream:         handlers.NewStreamHandler(streaming.NewClient(cfg.Stream)),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	sched.Start()

	// Run server
	g.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Str("environment", cfg.Environment).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := sched.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
