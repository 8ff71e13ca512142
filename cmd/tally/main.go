package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tally/internal/auth"
	"tally/internal/config"
	"tally/internal/event"
	"tally/internal/export"
	apphttp "tally/internal/http"
	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/report"
	"tally/internal/store"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine; real deployments configure the
		// environment directly.
		if !os.IsNotExist(err) {
			os.Stderr.WriteString("warning: loading .env: " + err.Error() + "\n")
		}
	}

	cfg := config.Load()

	logger := applog.New(applog.ParseLevel(cfg.LogLevel), "app")
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	st, cleanup, err := store.Open(store.Config{
		Backend:    cfg.StoreBackend,
		DataDir:    cfg.DataDir,
		SQLitePath: cfg.SQLiteDBPath,
	}, logger.WithComponent("store").Logger)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Store cleanup error", "error", err)
			}
		}()
	}

	var events *event.Publisher
	if cfg.AMQPURL != "" {
		events, err = event.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize event publisher, continuing without events", "error", err)
			events = nil
		} else {
			defer events.Close()
			logger.Info("Initialized event publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	authSvc := auth.NewService(st)
	txSvc := ledger.NewService(st, events)
	reports := report.NewEngine(txSvc)
	exporter := export.NewService(txSvc)

	srv, err := apphttp.NewServer(":"+cfg.Port, authSvc, txSvc, reports, exporter, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logger.Error("Failed to initialize HTTP server", "error", err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tally server", "port", cfg.Port, "backend", cfg.StoreBackend)
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
