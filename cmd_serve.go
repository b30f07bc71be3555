package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/weather-insights-advisor/agent/api"
	"golang.org/x/sync/errgroup"
)

const cacheSweepInterval = 10 * time.Minute

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipelines over HTTP",
	Long: `Starts the HTTP API:
  POST /query      {"query": "...", "pipeline": "auto", "hints": {...}}
  GET  /pipelines  available pipelines
  GET  /health     liveness
  GET  /metrics    Prometheus metrics`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: APP_LISTEN_ADDR)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := api.NewHandler(a.router,
		api.WithLogger(a.logger),
		api.WithMetrics(a.metrics.Handler()),
		api.WithRunTimeout(a.cfg.RunTimeout),
		api.WithAllowedOrigin(a.cfg.AllowedOrigin),
	)
	if err != nil {
		return err
	}

	addr := a.cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.ListenAndServe(gctx, addr)
	})
	if a.memCache != nil {
		g.Go(func() error {
			sweepCache(gctx, a)
			return nil
		})
	}
	return g.Wait()
}

func sweepCache(ctx context.Context, a *app) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.memCache.Sweep(); n > 0 {
				a.logger.Debug().Int("removed", n).Msg("cache sweep")
			}
		}
	}
}
