package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aevon-lab/salespulse/internal/aggregation"
	corecfg "github.com/aevon-lab/salespulse/internal/core/config"
	"github.com/aevon-lab/salespulse/internal/core/lock"
	"github.com/aevon-lab/salespulse/internal/core/metrics"
	"github.com/aevon-lab/salespulse/internal/core/storage"
	"github.com/aevon-lab/salespulse/internal/core/storage/memory"
	"github.com/aevon-lab/salespulse/internal/core/storage/postgres"
	"github.com/aevon-lab/salespulse/internal/ingestion"
	"github.com/aevon-lab/salespulse/internal/migrations"
	"github.com/aevon-lab/salespulse/internal/projection"
	"github.com/aevon-lab/salespulse/internal/reconcile"
	"github.com/aevon-lab/salespulse/internal/server"
	"github.com/coder/quartz"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "salesd.yaml", "Path to configuration file")
	rollupTenant := flag.String("rollup", "", "Run one rollup for this tenant and exit")
	backfillTenant := flag.String("backfill", "", "Run one backfill for this tenant and exit")
	lookbackDays := flag.Int("lookback-days", 0, "Backfill lookback in days (0 = tenant policy default)")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"database", cfg.Database.Type,
		"lock_backend", cfg.Lock.Backend,
		"tenant_policies", cfg.Policies.Len(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := quartz.NewReal()
	var healthChecks []server.Option

	// 2. Initialize Storage
	var (
		counters storage.CounterStore
		ledger   storage.OrderLedger
	)
	switch cfg.Database.Type {
	case "memory":
		store := memory.NewStore(memory.WithMaxBatchSize(cfg.Analytics.MaxBatchSize), memory.WithClock(clock))
		counters, ledger = store, store
		slog.Warn("Using in-memory store; counters are lost on restart")
	default:
		dbAdapter, err := postgres.NewAdapter(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Analytics.MaxBatchSize,
		)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer dbAdapter.Close()

		// 2.1. Run Database Migrations
		if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}

		counters, ledger = dbAdapter, postgres.NewLedgerAdapter(dbAdapter.DB())
		healthChecks = append(healthChecks, server.WithHealthCheck("database", dbAdapter.DB().PingContext))
	}

	// 3. Initialize Tenant Lock
	var locker lock.Locker
	switch cfg.Lock.Backend {
	case "redis":
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("Failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client)
		healthChecks = append(healthChecks, server.WithHealthCheck("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	default:
		locker = lock.NewLocalLocker(clock)
	}

	// 4. Initialize Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(registry)

	// 5. Initialize Engines
	recorder := ingestion.NewRecorder(counters, cfg.Policies, clock, m)
	rollupEngine := aggregation.NewEngine(counters, cfg.Policies, clock, m, cfg.Analytics.MaxBatchSize)
	backfillEngine := reconcile.NewEngine(counters, ledger, cfg.Policies, clock, m, reconcile.Options{
		MaxBatchSize:    cfg.Analytics.MaxBatchSize,
		ReadConcurrency: cfg.Backfill.ReadConcurrency,
	})

	// 5.1. Operator one-shot runs
	if *rollupTenant != "" {
		os.Exit(runOnce(ctx, locker, *rollupTenant, cfg.Lock.TTLDuration(), func(ctx context.Context) (any, error) {
			return rollupEngine.Rollup(ctx, *rollupTenant)
		}))
	}
	if *backfillTenant != "" {
		os.Exit(runOnce(ctx, locker, *backfillTenant, cfg.Lock.TTLDuration(), func(ctx context.Context) (any, error) {
			return backfillEngine.Backfill(ctx, *backfillTenant, *lookbackDays)
		}))
	}

	scheduler := aggregation.NewScheduler(
		rollupEngine,
		locker,
		aggregation.ScheduledTenants(counters, cfg.Policies),
		aggregation.SchedulerOptions{
			Interval:    cfg.Rollup.Interval(),
			WorkerCount: cfg.Rollup.WorkerCount,
			LockTTL:     cfg.Lock.TTLDuration(),
			Clock:       clock,
		},
	)

	// 6. Initialize Server
	srv := server.New(
		fmtAddr(cfg.Server.Host, cfg.Server.Port),
		cfg.Server.Mode,
		append(healthChecks, server.WithMetrics(registry))...,
	)
	ingestion.NewService(recorder, cfg.Server.MaxBodySizeMB).RegisterRoutes(srv.Engine)
	aggregation.NewService(rollupEngine, locker, cfg.Lock.TTLDuration()).RegisterRoutes(srv.Engine)
	reconcile.NewService(backfillEngine, locker, cfg.Lock.TTLDuration()).RegisterRoutes(srv.Engine)
	projection.NewService(counters, clock, m).RegisterRoutes(srv.Engine)

	// 7. Start Services
	schedulerDone := make(chan struct{})
	if cfg.Rollup.Enabled {
		go func() {
			defer close(schedulerDone)
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Scheduler stopped with error", "error", err)
			}
		}()
	} else {
		close(schedulerDone)
		slog.Info("Rollup scheduler disabled by config")
	}

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		cancel()
	}

	<-schedulerDone
	slog.Info("Shutdown complete")
}

// runOnce runs fn under the tenant lock, prints its result as JSON and
// returns the process exit code.
func runOnce(ctx context.Context, locker lock.Locker, tenantID string, ttl time.Duration, fn func(context.Context) (any, error)) int {
	var result any
	err := lock.WithTenant(ctx, locker, tenantID, ttl, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	if result != nil {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	}
	if err != nil {
		slog.Error("Run failed", "tenant_id", tenantID, "error", err)
		return 1
	}
	return 0
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
