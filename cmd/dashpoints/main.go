package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/aevon-lab/dashpoints/internal/core/config"
	"github.com/aevon-lab/dashpoints/internal/core/source"
	"github.com/aevon-lab/dashpoints/internal/core/storage"
	"github.com/aevon-lab/dashpoints/internal/migrations"
	"github.com/aevon-lab/dashpoints/internal/series"
	"github.com/aevon-lab/dashpoints/internal/server"
	"github.com/aevon-lab/dashpoints/internal/widget"
)

func main() {
	configPath := flag.String("config", "dashpoints.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Log.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
	slog.Info("Loaded config",
		"sources", len(cfg.SourceLoading.Definitions),
		"widgets", cfg.Widgets.SourceType,
		"database", cfg.Database.Type,
	)

	loc, _ := cfg.Series.Location()
	calendarOpts, _ := cfg.Series.CalendarOptions()
	requestTimeout, _ := cfg.Series.EffectiveRequestTimeout()
	warmInterval, _ := cfg.Series.EffectiveWarmInterval()

	// 2. Initialize Storage (only when a source or the widget store needs it)
	var db *sql.DB
	if cfg.NeedsDatabase() {
		db, err = storage.Open(cfg.Database.Type, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	// 2.1. Run Database Migrations
	if cfg.Widgets.SourceType == corecfg.WidgetSourceDatabase {
		if err := migrations.RunMigrations(db, cfg.Database.Type, cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
	}

	// 3. Initialize Source Registry
	registry := source.NewRegistry()
	if err := storage.RegisterSources(registry, cfg.SourceLoading.Definitions, db, cfg.Database.Type, loc); err != nil {
		slog.Error("Failed to register sources", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Widget Store
	widgets, closeWidgets, err := openWidgets(cfg, db)
	if err != nil {
		slog.Error("Failed to initialize widget store", "type", cfg.Widgets.SourceType, "error", err)
		os.Exit(1)
	}
	defer closeWidgets()

	// 5. Initialize Series (query API)
	seriesSvc := series.NewService(widgets, registry, series.Options{
		Location:       loc,
		Calendar:       calendarOpts,
		MaxQueries:     cfg.Series.MaxQueries,
		RequestTimeout: requestTimeout,
		CacheCapacity:  cfg.Series.CacheCapacity,
		Fanout:         cfg.Series.WarmWorkers,
	})

	// 6. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), db, cfg.Server.Mode)
	seriesSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if warmInterval > 0 && cfg.Series.CacheCapacity > 0 {
		warmer := series.NewWarmer(seriesSvc, warmInterval, cfg.Series.WarmWorkers)
		go func() {
			if err := warmer.Start(ctx); err != nil {
				slog.Error("Warmer stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Series warmer disabled by config")
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func openWidgets(cfg *corecfg.Config, db *sql.DB) (widget.Repository, func(), error) {
	switch cfg.Widgets.SourceType {
	case corecfg.WidgetSourceFilesystem:
		repo, err := widget.NewFileSystemRepository(cfg.Widgets.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	case corecfg.WidgetSourceDatabase:
		repo, err := widget.NewSQLRepository(db)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported widgets.source_type %q", cfg.Widgets.SourceType)
	}
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
