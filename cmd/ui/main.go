package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coin-dashboard-go/internal/coingecko"
	"coin-dashboard-go/internal/config"
	"coin-dashboard-go/internal/dashboard"
	"coin-dashboard-go/internal/database"
	"coin-dashboard-go/internal/logger"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var opts []dashboard.Option
	var diagnostics Diagnostics
	if cfg.Database.DSN != "" {
		db, err := database.NewDatabase(&cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		journal := database.NewJournal(db)
		opts = append(opts, dashboard.WithRecorder(journal))
		diagnostics = journal
	}

	client := coingecko.NewRestClient(&cfg.CoinGecko, log)
	store := dashboard.New(client, cfg.Dashboard, log, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancelPing := context.WithTimeout(ctx, 10*time.Second)
	if err := client.Ping(pingCtx); err != nil {
		log.Warn("Market data API is not reachable, starting anyway", zap.Error(err))
	}
	cancelPing()

	if err := store.Start(ctx); err != nil {
		log.Fatal("Failed to start dashboard", zap.Error(err))
	}
	defer store.Stop()

	router := mux.NewRouter()
	NewAPIHandler(log, store, diagnostics, cfg.Dashboard.RowsPerPage, cfg.Dashboard.HighlightRows).Routes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting web server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Web server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server", zap.Error(err))
	} else {
		log.Info("Server gracefully stopped")
	}
}
