package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aevon-lab/uniqterms/internal/cache"
	corecfg "github.com/aevon-lab/uniqterms/internal/core/config"
	"github.com/aevon-lab/uniqterms/internal/core/storage/postgres"
	"github.com/aevon-lab/uniqterms/internal/migrations"
	"github.com/aevon-lab/uniqterms/internal/partition"
	"github.com/aevon-lab/uniqterms/internal/query"
	"github.com/aevon-lab/uniqterms/internal/scatter"
	"github.com/aevon-lab/uniqterms/internal/search"
	"github.com/aevon-lab/uniqterms/internal/server"
	"github.com/aevon-lab/uniqterms/internal/uniqueterms"
)

func main() {
	configPath := flag.String("config", corecfg.DefaultPath, "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()})))
	slog.Info("Loaded config", "config", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Cache Store
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize cache store", "type", cfg.Cache.Type, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	gateway := cache.NewGateway(store)

	// 3. Initialize Search Backend
	searchClient := search.NewClient(cfg.Search.URL, cfg.Query.FacetName, search.Options{
		Timeout:      cfg.Search.Timeout,
		MaxIdleConns: cfg.Search.MaxIdleConns,
	})

	// 4. Initialize Engine
	layout := partition.Layout{Format: cfg.Partition.Layout, Duration: cfg.Partition.Duration}
	svc := uniqueterms.NewService(
		query.NewParser(cfg.Query.FacetName, cfg.Query.TimeField),
		searchClient,
		partition.NewPlanner(layout, gateway),
		scatter.NewCoordinator(searchClient, gateway, cfg.Search.Timeout),
		cfg.Server.MaxBodySizeMB,
	)

	// 5. Initialize Server
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	srv := server.New(
		fmtAddr(cfg.Server.Host, cfg.Server.Port),
		cfg.Server.Mode,
		map[string]server.HealthChecker{"cache": gateway, "search": searchClient},
		server.Options{MetricsPath: metricsPath},
	)
	svc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	var background sync.WaitGroup
	if flusher, ok := store.(cache.Flusher); ok {
		scheduler := cache.NewFlushScheduler(cfg.Cache.FlushInterval, flusher)
		background.Add(1)
		go func() {
			defer background.Done()
			if err := scheduler.Start(ctx); err != nil {
				slog.Error("Flush scheduler stopped with error", "error", err)
			}
		}()
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

	// Final cache flush must land before the stores close.
	background.Wait()
	slog.Info("Shutdown complete")
}

// openStore builds the configured cache store and returns a func releasing
// everything it opened.
func openStore(ctx context.Context, cfg *corecfg.Config) (cache.Store, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	durable := cfg.Cache.Type
	if durable == corecfg.CacheTiered {
		durable = cfg.Cache.Backend
	}

	var store cache.Store
	switch durable {
	case corecfg.CacheMemory:
		store = cache.NewMemoryStore(cfg.Cache.MemoryCapacity)

	case corecfg.CachePostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN, postgres.Options{
			MaxOpenConns:   cfg.Database.MaxOpenConns,
			MaxIdleConns:   cfg.Database.MaxIdleConns,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { db.Close() })

		if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("run database migrations: %w", err)
		}

		resultStore, err := postgres.NewResultStore(ctx, db)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		store = resultStore

	case corecfg.CacheBadger:
		badgerStore, err := cache.OpenBadgerStore(cfg.Cache.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := badgerStore.Close(); err != nil {
				slog.Error("Failed to close badger store", "error", err)
			}
		})
		store = badgerStore

	default:
		return nil, nil, fmt.Errorf("unsupported cache store %q", durable)
	}

	if cfg.Cache.Type == corecfg.CacheTiered {
		store = cache.NewTieredStore(cache.NewMemoryStore(cfg.Cache.MemoryCapacity), store)
	}

	slog.Info("Cache store initialized",
		"type", cfg.Cache.Type,
		"backend", durable,
		"memory_capacity", cfg.Cache.MemoryCapacity,
	)
	return store, closeAll, nil
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
