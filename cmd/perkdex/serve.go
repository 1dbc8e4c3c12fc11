package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/perkdex/internal/metrics"
	"github.com/kailas-cloud/perkdex/internal/source/watch"
	chiTransport "github.com/kailas-cloud/perkdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/perkdex/internal/usecase/health"
	"github.com/kailas-cloud/perkdex/internal/version"
)

func serveCommand(c *cli.Context) error {
	d, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer d.close()

	cfg := d.cfg
	log := d.log
	log.Info("Starting perkdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", d.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("source_driver", cfg.Source.Driver),
		zap.String("strategy", cfg.Search.Strategy),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := d.catalog.Reindex(ctx); err != nil {
		return fmt.Errorf("initial index build: %w", err)
	}

	if cfg.Source.Watch && d.fs != nil {
		debounce := time.Duration(cfg.Source.DebounceMS) * time.Millisecond
		w := watch.New(d.fs.Dir(), debounce, d.fs.Relevant, d.catalog, log)
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Error("Watcher stopped", zap.Error(err))
			}
		}()
		log.Info("Watching offer directory", zap.String("dir", d.fs.Dir()))
	}

	server := chiTransport.NewServer(d.catalog, healthuc.New(d.catalog, d.pinger), log)

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(log))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(log))
	r.Use(chiTransport.BearerAuth(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Handle("/metrics", promhttp.Handler())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}

	log.Info("Server stopped gracefully")
	return nil
}
