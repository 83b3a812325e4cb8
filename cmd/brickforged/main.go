// Command brickforged runs the brickforge daemon: the set-processing
// pipeline and the HTTP API the CLI talks to.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brickforge/internal/colors"
	"brickforge/internal/config"
	"brickforge/internal/converting"
	"brickforge/internal/daemon"
	"brickforge/internal/jobs"
	"brickforge/internal/logging"
	"brickforge/internal/metadata"
	"brickforge/internal/pipeline"
	"brickforge/internal/services/ldraw"
	"brickforge/internal/services/rebrickable"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "brickforged: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, configPath, found, err := config.Load("")
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewForDir(cfg.Paths.LogDir, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	if found {
		logger.Info("configuration loaded", logging.String("path", configPath))
	} else {
		logger.Info("no configuration file found, using defaults", logging.String("searched", configPath))
	}

	table, err := colors.LoadTable(cfg.Paths.ColorsCSV)
	if err != nil {
		logger.Warn("colors table unavailable, falling back to provider colors",
			logging.String("path", cfg.Paths.ColorsCSV),
			logging.Error(err),
		)
		table = colors.Empty()
	}

	store, err := metadata.NewStore(cfg.Paths.SetsDir, table, logger)
	if err != nil {
		return err
	}

	provider, err := rebrickable.New(cfg.Rebrickable.APIKey, cfg.Rebrickable.BaseURL,
		rebrickable.WithPageSize(cfg.Rebrickable.PageSize))
	if err != nil {
		return err
	}

	converter, err := ldraw.New(
		cfg.Converter.PerlBinary,
		cfg.Converter.Script,
		cfg.Paths.LDrawDir,
		cfg.ConvertTimeout(),
		cfg.Converter.UseCache,
		ldraw.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	registry := jobs.NewRegistry(logger)
	orchestrator := converting.New(converter, store, logger)
	manager := pipeline.NewManager(provider, orchestrator, store, registry, pipeline.Config{
		Workers:       cfg.Pipeline.Workers,
		QueueCapacity: cfg.Pipeline.QueueCapacity,
		SkipExisting:  cfg.Converter.SkipExisting,
	}, logger)

	server := daemon.NewAPIServer(cfg.Paths.APIBind, manager, store, provider, logger)
	d := daemon.New(cfg, manager, server, logger)

	if err := d.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	d.Stop(shutdownCtx)
	return nil
}
