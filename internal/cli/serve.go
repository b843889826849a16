package cli

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineup/internal/server"
	"github.com/matzehuels/lineup/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the scheduling HTTP API with Prometheus metrics on /metrics.

The cache and history backends come from the config file or LINEUP_*
environment variables, e.g. LINEUP_CACHE_BACKEND=redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg := c.config()
	if addr == "" {
		addr = cfg.Server.Addr
	}

	runner, err := c.newRunner(ctx, runnerOpts{})
	if err != nil {
		return err
	}
	defer runner.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	hooks := observability.NewPrometheus(reg)
	observability.SetScheduleHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	c.Logger.Info("starting server",
		"cache", cfg.Cache.Backend,
		"history", cfg.History.Backend,
		"policy", cfg.Policy)

	srv := server.New(server.Options{
		Runner:       runner,
		Logger:       c.Logger,
		Registry:     reg,
		Policy:       cfg.Policy,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
