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

	"kassan/internal/amqp"
	"kassan/internal/auth"
	"kassan/internal/backend"
	"kassan/internal/config"
	apphttp "kassan/internal/http"
	applog "kassan/internal/log"
	"kassan/internal/services"
)

func main() {
	// Missing .env is fine in production, the environment is already set.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", applog.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	store, err := backend.Open(ctx, cfg, logger.Logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("failed to initialize AMQP client, continuing without export events",
				applog.FieldError, err.Error())
		} else {
			defer client.Close()
			events = client
			logger.Info("initialized AMQP client",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	resolver := auth.NewResolver(store)
	summaryCache := services.NewSummaryCache(cfg.SummaryCacheSize, cfg.SummaryCacheTTL)

	server := apphttp.NewServer(cfg, apphttp.Services{
		Profiles:      services.NewProfileService(store),
		Organizations: services.NewOrganizationService(store, resolver),
		Memberships:   services.NewMembershipService(store, resolver),
		Transactions:  services.NewTransactionService(store, resolver, events, summaryCache),
		Summaries:     services.NewSummaryService(store, resolver, summaryCache),
		Categories:    services.NewCategoryService(store, resolver),
		Budgets:       services.NewBudgetService(store, resolver),
		Trips:         services.NewTripService(store, resolver),
		Subscriptions: services.NewSubscriptionService(store, resolver),
	}, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
