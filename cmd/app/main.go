package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cafesol/cafeapp/api/routes"
	"github.com/cafesol/cafeapp/internal/admin"
	"github.com/cafesol/cafeapp/internal/cart"
	"github.com/cafesol/cafeapp/internal/catalog"
	"github.com/cafesol/cafeapp/internal/checkout"
	"github.com/cafesol/cafeapp/internal/session"
	"github.com/cafesol/cafeapp/pkg/backend"
	"github.com/cafesol/cafeapp/pkg/config"
	"github.com/cafesol/cafeapp/pkg/logger"
	"github.com/cafesol/cafeapp/pkg/metrics"
	"github.com/cafesol/cafeapp/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cafeapp"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cafeapp",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	apiClient, err := backend.NewClient(cfg.Backend, backend.WithMetrics(checkoutMetrics))
	if err != nil {
		logg.Error(context.Background(), "failed to build cafe api client", err)
		os.Exit(1)
	}

	loader, err := catalog.NewLoader(apiClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build catalog loader", err)
		os.Exit(1)
	}

	sessionFactory := func(sessionID string) (*cart.Store, *checkout.Orchestrator, error) {
		store := cart.NewStore()
		orch, err := checkout.NewOrchestrator(apiClient, store, logg, checkoutMetrics)
		if err != nil {
			return nil, nil, err
		}
		return store, orch, nil
	}

	sessions, err := session.NewManager(sessionFactory, cfg.Session, redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build session manager", err)
		os.Exit(1)
	}
	sessions.StartJanitor(context.Background())

	productEditor, err := admin.NewProductEditor(apiClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build product editor", err)
		os.Exit(1)
	}
	comboEditor, err := admin.NewComboEditor(apiClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build combo editor", err)
		os.Exit(1)
	}
	optionGroupEditor, err := admin.NewOptionGroupEditor(apiClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to build option group editor", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting cafeapp server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			sessions,
			loader,
			productEditor,
			comboEditor,
			optionGroupEditor,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "server stopped unexpectedly", err)
		os.Exit(1)
	}
}
