package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moneywise/internal/amqp"
	"moneywise/internal/auth"
	"moneywise/internal/config"
	apphttp "moneywise/internal/http"
	applog "moneywise/internal/log"
	"moneywise/internal/services"
	"moneywise/internal/store"
	storemem "moneywise/internal/store/memory"
	storesqlite "moneywise/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var backend store.Backend
	switch cfg.DataBackend {
	case "memory":
		backend = storemem.New()
		logger.Info("Initialized memory backend")
	default:
		repo, err := storesqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		backend = repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	}
	defer backend.Close()

	// The broker is optional: without AMQP_URL the export mirror is off
	// and everything else works.
	var publisher services.TransactionEventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP, export disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	srv := apphttp.NewServer(":"+cfg.Port, backend, tokens, publisher)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting moneywise server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
