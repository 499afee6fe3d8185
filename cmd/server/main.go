package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq"

	auditshttp "modqueue/internal/audit/handler"
	auditstore "modqueue/internal/audit/store"
	"modqueue/internal/auth"
	listinghttp "modqueue/internal/listing/handler"
	listingstore "modqueue/internal/listing/store"
	"modqueue/internal/listing/service"
	"modqueue/internal/platform/config"
	"modqueue/internal/platform/httpserver"
	"modqueue/internal/platform/logger"
	"modqueue/internal/platform/metrics"
	"modqueue/internal/platform/ratelimit"
	platformredis "modqueue/internal/platform/redis"
	"modqueue/internal/seed"
	httptransport "modqueue/internal/transport/http"
	txcontext "modqueue/pkg/platform/tx"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	listings, audits, txRunner, err := buildStores(ctx, cfg)
	if err != nil {
		log.Error("store setup failed", "error", err.Error())
		os.Exit(1)
	}

	if os.Getenv("MODQUEUE_SEED_DEMO") != "false" {
		if err := seed.Stores(ctx, listings, audits); err != nil {
			log.Error("seeding failed", "error", err.Error())
			os.Exit(1)
		}
	}

	svc := service.New(listings, audits,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithTxRunner(txRunner),
	)

	users := auth.NewUserStore()
	if err := seedAdminUsers(users); err != nil {
		log.Error("admin user setup failed", "error", err.Error())
		os.Exit(1)
	}
	tokens := auth.NewTokenManager(cfg.JWTSigningKey, cfg.TokenTTL)

	var limiter func(http.Handler) http.Handler
	rdb, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis setup failed", "error", err.Error())
		os.Exit(1)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		limiter = ratelimit.Middleware(rdb.Client, cfg.RateLimit.Requests, cfg.RateLimit.Window, log)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:    log,
		Validator: tokens,
		RateLimit: limiter,
		Auth:      auth.NewHandler(users, tokens, log),
		Listings:  listinghttp.New(svc, log),
		Audit:     auditshttp.New(svc, log),
	})

	apiSrv := httpserver.New(cfg.Addr, router)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := httpserver.New(cfg.MetricsAddr, metricsMux)

	log.Info("starting modqueue", "addr", cfg.Addr, "metrics_addr", cfg.MetricsAddr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
		return apiSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}

// buildStores selects the Postgres-backed stores when a DSN is configured,
// in-memory otherwise.
func buildStores(ctx context.Context, cfg config.Server) (listingstore.Store, auditstore.Store, txcontext.Runner, error) {
	if cfg.PostgresDSN == "" {
		return listingstore.NewInMemory(), auditstore.NewInMemory(), txcontext.NopRunner{}, nil
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, nil, err
	}

	listings := listingstore.NewPostgres(db)
	audits := auditstore.NewPostgres(db)
	if err := listings.EnsureSchema(ctx); err != nil {
		return nil, nil, nil, err
	}
	if err := audits.EnsureSchema(ctx); err != nil {
		return nil, nil, nil, err
	}
	return listings, audits, txcontext.SQLRunner{DB: db}, nil
}

// seedAdminUsers registers the demo reviewer accounts. Override the shared
// password via ADMIN_PASSWORD.
func seedAdminUsers(users *auth.UserStore) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "password123"
	}
	accounts := []auth.User{
		{ID: 1, Email: "admin@example.com", Name: "Admin User", Role: "admin"},
		{ID: 2, Email: "manager@example.com", Name: "Manager User", Role: "manager"},
	}
	for _, account := range accounts {
		if err := users.Add(account, password); err != nil {
			return err
		}
	}
	return nil
}
