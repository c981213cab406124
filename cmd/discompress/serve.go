package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	HTTPAdapter "github.com/OwenK944/discompress/internal/adapter/http"
	"github.com/OwenK944/discompress/internal/adapter/http/middleware"
	"github.com/OwenK944/discompress/internal/adapter/http/ratelimit"
	"github.com/OwenK944/discompress/internal/adapter/storage/workdir"
	"github.com/OwenK944/discompress/internal/infrastructure/logger"
	"github.com/OwenK944/discompress/internal/service"
)

const (
	shutdownTimeout = 30 * time.Second
	sweepInterval   = time.Hour
	minStaleAge     = 6 * time.Hour
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP compression service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	if err := p.converter.CheckTools(); err != nil {
		logger.Warn.Printf("%v; uploads will fail until it is installed", err)
	}

	// Anything older than this can only be left over from a crash.
	staleAge := max(minStaleAge, 2*cfg.CleanupDelay)
	sweep(p.dir, staleAge)

	janitor := service.NewJanitor(p.dir, cfg.CleanupDelay)
	defer janitor.Flush()

	var limiter *ratelimit.Limiter
	if cfg.UploadsPerMinute > 0 {
		limiter = ratelimit.NewLimiter(cfg.UploadsPerMinute, time.Minute, time.Minute)
		defer limiter.Close()
	}

	policy, err := middleware.NewCORSPolicy(cfg.AllowedOrigin)
	if err != nil {
		return fmt.Errorf("invalid ALLOWED_ORIGIN: %w", err)
	}

	handlers := HTTPAdapter.NewHandlers(p.compressSvc, p.dir, janitor, HTTPAdapter.HandlerConfig{
		TargetBytes:    cfg.TargetBytes(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Limiter:        limiter,
	})
	server := HTTPAdapter.NewServer(handlers, policy)

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sweep(p.dir, staleAge)
			case <-ctx.Done():
				return
			}
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Minute,
		// No WriteTimeout: the response is only written once the encode is done.
		IdleTimeout: 120 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info.Printf("metrics listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error.Printf("metrics server failed: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("discompress listening on %s (target %.1f MB, %d encode slot(s), tmp %s)",
			addr, cfg.TargetSizeMB, cfg.MaxConcurrentEncodes, p.dir.Root())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("http shutdown error: %v", err)
		// Cancels the request contexts, which stops any running encoder.
		_ = httpServer.Close()
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}

	logger.Info.Printf("shutdown complete")
	return nil
}

func sweep(dir *workdir.Dir, staleAge time.Duration) {
	removed, err := dir.Sweep(staleAge)
	if err != nil {
		logger.Error.Printf("work directory sweep failed: %v", err)
		return
	}
	if removed > 0 {
		logger.Info.Printf("removed %d stale file(s) from %s", removed, dir.Root())
	}
}
