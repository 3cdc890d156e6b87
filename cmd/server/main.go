package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/recordkeep/records-system/internal/api"
	"github.com/recordkeep/records-system/internal/api/handler"
	"github.com/recordkeep/records-system/internal/api/metrics"
	"github.com/recordkeep/records-system/internal/api/middleware"
	"github.com/recordkeep/records-system/internal/core/ports"
	"github.com/recordkeep/records-system/internal/core/service"
	mongostore "github.com/recordkeep/records-system/internal/infrastructure/db/mongo"
	redisstore "github.com/recordkeep/records-system/internal/infrastructure/db/redis"
	"github.com/recordkeep/records-system/internal/infrastructure/db/sqldb"
	"github.com/recordkeep/records-system/internal/infrastructure/scheduler"
	"github.com/recordkeep/records-system/internal/infrastructure/security"
	"github.com/recordkeep/records-system/internal/infrastructure/session"
	"github.com/recordkeep/records-system/internal/pkg/config"
	"github.com/recordkeep/records-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "records",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// recordStores bundles the repositories of one backend and its health probe.
type recordStores struct {
	accounts ports.AccountRepository
	users    ports.UserRepository
	products ports.ProductRepository
	ping     handler.PingFunc
	close    func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	stores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing record store")
		}
	}()

	sessions, sessionPing, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	alerts := service.NewAlertService(stores.products, cfg.LowStockThreshold)
	limiter := middleware.NewLoginLimiter(cfg.LoginRate, cfg.LoginBurst, logger.Component("ratelimit"))

	jobs, err := startJobs(cfg, alerts, limiter)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Auth: service.NewAuthService(stores.accounts, stores.users, hasher, sessions,
			cfg.JWTSecret, cfg.SessionTTL, logger.Component("auth")),
		Ledger:    service.NewLedgerService(stores.accounts, hasher, cfg.LedgerCacheSize, logger.Component("ledger")),
		Inventory: service.NewInventoryService(stores.products, logger.Component("inventory")),
		Alerts:    alerts,
		Checks: map[string]handler.PingFunc{
			"store":    stores.ping,
			"sessions": sessionPing,
		},
		Log:          logger.Component("http"),
		LoginLimiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Driver).
			Bool("redis_sessions", cfg.Redis.Addr != "").
			Msg("records server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx, jobs, srv); err != nil && serveErr == nil {
		return err
	}
	return serveErr
}

type stopper interface {
	Stop(ctx context.Context)
}

type drainer interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops the scheduler before the HTTP server drains, so no
// background job starts against stores that are about to close.
func shutdown(ctx context.Context, jobs stopper, srv drainer) error {
	jobs.Stop(ctx)
	return srv.Shutdown(ctx)
}

func openStores(ctx context.Context, cfg *config.Config) (*recordStores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &recordStores{
			accounts: mongostore.NewAccountRepository(db),
			users:    mongostore.NewUserRepository(db),
			products: mongostore.NewProductRepository(db),
			ping:     func(ctx context.Context) error { return mongostore.Ping(ctx, db) },
			close:    client.Disconnect,
		}, nil

	default:
		sqlLog := logger.Component("sql")
		sqlCfg := sqldb.Config{Driver: sqldb.DriverSQLite, DSN: cfg.Store.SQLitePath, Log: &sqlLog}
		if cfg.Store.Driver == config.DriverPostgres {
			sqlCfg.Driver, sqlCfg.DSN = sqldb.DriverPostgres, cfg.Store.DatabaseURL
		}
		db, err := sqldb.Open(ctx, sqlCfg)
		if err != nil {
			return nil, err
		}
		return &recordStores{
			accounts: sqldb.NewAccountRepository(db),
			users:    sqldb.NewUserRepository(db),
			products: sqldb.NewProductRepository(db),
			ping:     func(ctx context.Context) error { return sqldb.Ping(ctx, db) },
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	}
}

func openSessions(ctx context.Context, cfg *config.Config) (ports.SessionStore, handler.PingFunc, func(), error) {
	if cfg.Redis.Addr == "" {
		store := session.NewMemoryStore()
		return store, store.Ping, func() {}, nil
	}

	client, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	store := redisstore.NewSessionStore(client)
	return store, store.Ping, func() { _ = client.Close() }, nil
}

// startJobs schedules the low-stock scan and the limiter cleanup.
func startJobs(cfg *config.Config, alerts ports.AlertService, limiter *middleware.LoginLimiter) (*scheduler.Scheduler, error) {
	log := logger.Component("scheduler")
	s := scheduler.New(log)

	if cfg.LowStockScan != "off" {
		err := s.Add(cfg.LowStockScan, "low_stock_scan", func(ctx context.Context) error {
			products, err := alerts.LowStock(ctx, nil)
			if err != nil {
				return err
			}
			metrics.LowStockProducts.Set(float64(len(products)))
			if len(products) > 0 {
				log.Warn().Int("products", len(products)).Int("threshold", cfg.LowStockThreshold).Msg("products at or below stock threshold")
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.Add("@every 5m", "login_limiter_cleanup", func(context.Context) error {
		limiter.Cleanup()
		return nil
	}); err != nil {
		return nil, err
	}

	s.Start()
	return s, nil
}
