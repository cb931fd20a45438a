package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/funa-dev/funa/internal/dev"
	"github.com/funa-dev/funa/pkg/telemetry"
)

func serveCmd(opts *options) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Start the live preview server",
		Long: `Start the live preview server.

Every page load renders the template into a fresh session on the server.
Browser events are replayed there and the updated markup is sent back, so
handlers and bindings behave as they would in a live document. Changes to
the template, data, script or serve.watch files reload connected browsers.

Examples:
  funa serve
  funa serve index.html --port=8080
  funa serve --host=0.0.0.0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(args)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := telemetry.NewMetrics(telemetry.WithRegistry(reg))
			p := newProject(cfg, logger, metrics)

			out := cmd.OutOrStdout()
			server := dev.NewServer(dev.ServerOptions{
				Config: cfg,
				Open: func(ctx context.Context) (*dev.Page, error) {
					doc, _, err := p.open(ctx)
					if err != nil {
						return nil, err
					}
					return &dev.Page{Doc: doc}, nil
				},
				Logger:   logger,
				Metrics:  metrics,
				Gatherer: reg,
				OnReload: func(clients int) {
					success(out, "Reloaded %d browsers", clients)
				},
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(out, "Serving %s at %s", cfg.Template, cfg.URL())
			return server.Start(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from funa.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from funa.yaml)")

	return cmd
}
