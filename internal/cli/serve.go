package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treeprint/internal/server"
	"github.com/matzehuels/treeprint/pkg/observability"
)

// serveCommand creates the serve command that exposes the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve the layout and render pipeline as a JSON HTTP API.

Endpoints:
  GET  /healthz
  GET  /version
  POST /v1/layout               records → layout JSON
  POST /v1/render?format=svg    records → rendered artifact
  POST /v1/visualize?format=png layout JSON → rendered artifact

The server shares the configured cache with the CLI and stops gracefully
on interrupt.`,
		Example: `  treeprint serve
  treeprint serve --addr 127.0.0.1:9000
  curl -s localhost:8080/v1/render?format=txt -d '{"records": ...}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("max-body") {
				cfg.MaxBodyBytes = maxBody
			}

			ctx := cmd.Context()
			store, err := c.newCache(ctx)
			if err != nil {
				return err
			}

			if c.Logger.GetLevel() <= LogDebug {
				observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))
			}

			srv := server.New(store, server.Options{
				Addr:         cfg.Addr,
				MaxBodyBytes: cfg.MaxBodyBytes,
				Logger:       c.Logger,
			})
			defer srv.Close()
			srv.Runner().TTL = c.Config.Cache.TTL

			printSuccess("Serving on %s", StyleLink.Render(listenURL(cfg.Addr)))
			printDetail("Press Ctrl+C to stop")
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Int64Var(&maxBody, "max-body", 0, "maximum request body in bytes")

	return cmd
}

// listenURL turns a listen address into a clickable URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
