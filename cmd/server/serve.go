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

	"github.com/hazyhaar/cadop-search/pkg/api"
	"github.com/hazyhaar/cadop-search/pkg/chassis"
	"github.com/hazyhaar/cadop-search/pkg/dataset"
	"github.com/hazyhaar/cadop-search/pkg/importer"
	"github.com/urfave/cli/v2"
)

func serveCommand(c *cli.Context) error {
	logger := slog.Default()

	cfg, err := configFromContext(c)
	if err != nil {
		return err
	}
	if a := c.String("addr"); a != "" {
		cfg.Addr = a
	}

	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storeOpts := []dataset.StoreOption{dataset.WithLogger(logger)}
	if cfg.ScanWorkers > 0 {
		sc, err := dataset.NewScanner(cfg.ScanWorkers, dataset.WithScannerLogger(logger))
		if err != nil {
			return fmt.Errorf("scanner: %w", err)
		}
		defer sc.Release()
		storeOpts = append(storeOpts, dataset.WithScanner(sc))
	}
	store := dataset.OpenStore(cfg.Source, storeOpts...)

	// SIGHUP: reload the CSV.
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sighup:
				logger.Info("SIGHUP received, reloading dataset")
				if err := store.Reload(); err != nil {
					logger.Error("reload failed", "error", err)
				}
			}
		}
	}()

	if cfg.ReloadInterval > 0 {
		go store.Watch(ctx, cfg.ReloadInterval)
	}

	if cfg.CheckInterval > 0 {
		sdb, err := openSources(cfg)
		if err != nil {
			return err
		}
		defer sdb.Close()
		checker := importer.NewChecker(sdb, logger, cfg.CheckInterval,
			importer.WithRefresh(func(ctx context.Context, src importer.Source) error {
				rows, err := importer.Fetch(ctx, sdb, src.AdapterID, cfg.Source)
				if err != nil {
					return err
				}
				logger.Info("source refreshed", "adapter", src.AdapterID, "rows", rows)
				return store.Reload()
			}))
		go checker.Start(ctx)
	}

	router := api.NewRouter(store, logger)

	if cfg.TLS.Enabled {
		return serveChassis(ctx, cfg, store, router, logger)
	}
	return serveHTTP(ctx, cfg, router, logger)
}

func serveHTTP(ctx context.Context, cfg config, router http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cadop-search listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func serveChassis(ctx context.Context, cfg config, store *dataset.Store, router http.Handler, logger *slog.Logger) error {
	srv, err := chassis.New(chassis.Config{
		Addr:      cfg.Addr,
		CertFile:  cfg.TLS.CertFile,
		KeyFile:   cfg.TLS.KeyFile,
		Handler:   router,
		MCPServer: api.NewMCPServer(store, version, logger),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	startErr := srv.Start(ctx)

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(startErr, srv.Stop(shutdownCtx))
}
