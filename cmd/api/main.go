package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/innledger/internal/checkout"
	checkoutStore "github.com/MrJamesThe3rd/innledger/internal/checkout/store"
	"github.com/MrJamesThe3rd/innledger/internal/config"
	"github.com/MrJamesThe3rd/innledger/internal/dashboard"
	dashboardStore "github.com/MrJamesThe3rd/innledger/internal/dashboard/store"
	"github.com/MrJamesThe3rd/innledger/internal/database"
	"github.com/MrJamesThe3rd/innledger/internal/event"
	"github.com/MrJamesThe3rd/innledger/internal/export"
	innHttp "github.com/MrJamesThe3rd/innledger/internal/http"
	checkoutHandler "github.com/MrJamesThe3rd/innledger/internal/http/checkout"
	dashboardHandler "github.com/MrJamesThe3rd/innledger/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/innledger/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/innledger/internal/http/importcsv"
	ledgerHandler "github.com/MrJamesThe3rd/innledger/internal/http/ledger"
	matchingHandler "github.com/MrJamesThe3rd/innledger/internal/http/matching"
	paymentHandler "github.com/MrJamesThe3rd/innledger/internal/http/payment"
	"github.com/MrJamesThe3rd/innledger/internal/importer"
	"github.com/MrJamesThe3rd/innledger/internal/importer/cgd"
	"github.com/MrJamesThe3rd/innledger/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/innledger/internal/ledger/store"
	"github.com/MrJamesThe3rd/innledger/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/innledger/internal/matching/store"
	"github.com/MrJamesThe3rd/innledger/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/innledger/internal/payment/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	if err := cfg.ValidateAPI(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := event.NewHub()
	go hub.Run(ctx)

	loc := cfg.Location()

	var (
		ledgerService    = ledger.NewService(ledgerStore.New(db), ledger.WithPublisher(hub), ledger.WithLocation(loc))
		paymentFeed      = payment.NewAggregator(cfg.Aggregator.Concurrency, paymentStore.Sources(db, cfg.Aggregator.SourceLimit)...)
		dashboardService = dashboard.NewService(dashboardStore.New(db), loc)
		checkoutService  = checkout.NewService(checkoutStore.New(db), ledgerService, hub)
		matchingService  = matching.NewService(matchingStore.New(db))
		importService    = importer.NewService(checkoutService, matchingService, map[importer.Bank]importer.Parser{
			importer.BankCGD: cgd.NewParser(),
		})
		exportService = export.NewService(ledgerService)
	)

	router := innHttp.New(innHttp.Handlers{
		Ledger:    ledgerHandler.NewHandler(ledgerService),
		Payments:  paymentHandler.NewHandler(paymentFeed),
		Dashboard: dashboardHandler.NewHandler(dashboardService),
		Checkout:  checkoutHandler.NewHandler(checkoutService),
		Import:    importHandler.NewHandler(importService),
		Matching:  matchingHandler.NewHandler(matchingService),
		Export:    exportHandler.NewHandler(exportService),
	}, hub, innHttp.Options{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "timezone", loc.String())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
