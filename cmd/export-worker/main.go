package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"moneywise/internal/amqp"
	"moneywise/internal/config"
	applog "moneywise/internal/log"
	gsheets "moneywise/internal/sheets/google"
	storesqlite "moneywise/internal/store/sqlite"
	"moneywise/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.ValidateExport(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	backend, err := storesqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer backend.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appender, err := gsheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	w := worker.NewExportWorker(backend, appender)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting export worker",
			"queue", cfg.AMQPQueue,
			"spreadsheet", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
		return w.Run(ctx, client)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
