package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contact_keeper/internal/auth"
	"contact_keeper/internal/config"
	"contact_keeper/internal/contacts"
	"contact_keeper/internal/http_server/handlers/contact/create"
	"contact_keeper/internal/http_server/handlers/contact/list"
	"contact_keeper/internal/http_server/handlers/contact/remove"
	"contact_keeper/internal/http_server/handlers/contact/update"
	"contact_keeper/internal/http_server/handlers/login"
	"contact_keeper/internal/http_server/handlers/me"
	"contact_keeper/internal/http_server/handlers/register"
	"contact_keeper/internal/http_server/middleware/authn"
	rateLimit "contact_keeper/internal/middleware/ratelimit"
	"contact_keeper/internal/rabbitmq"
	"contact_keeper/internal/storage/postgres"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad(configPath())

	log := setupLogger(cfg.Env)

	log.Info("starting contact keeper", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	var events register.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
		if err != nil {
			log.Error("failed to connect rabbitmq", slog.String("err", err.Error()))
			os.Exit(1)
		}
		defer msgBroker.Close()

		events = msgBroker
	} else {
		log.Info("rabbitmq url not set, registration events disabled")
	}

	authService := auth.New(
		log,
		storage,
		storage,
		cfg.Tokens.Secret,
		cfg.Tokens.RegisterTokenTTL,
		cfg.Tokens.LoginTokenTTL,
	)
	contactsService := contacts.New(log, storage)

	router := setupRouter(log, cfg, authService, contactsService, events)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", slog.String("err", err.Error()))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	authService *auth.Auth,
	contactsService *contacts.Contacts,
	events register.EventPublisher,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(rateLimit.Register()).Post("/api/users",
		register.New(log, validate, authService, events),
	)
	r.With(rateLimit.Login()).Post("/api/auth",
		login.New(log, authService),
	)

	r.Group(func(r chi.Router) {
		r.Use(authn.New(log, cfg.Tokens.Secret))

		r.Get("/api/auth", me.New(log, authService))

		r.Route("/api/contacts", func(r chi.Router) {
			r.Use(rateLimit.Contacts())

			r.Get("/", list.New(log, contactsService))
			r.Post("/", create.New(log, validate, contactsService))
			r.Put("/{id}", update.New(log, validate, contactsService))
			r.Delete("/{id}", remove.New(log, contactsService))
		})
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "./config/config.yaml"
}
