package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stayscout/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the listing operations as an HTTP API",
		Long: `Serve the listing operations as a JSON API.

Routes:
  GET /v1/search?location=...       GET /v1/stats?location=...
  GET /v1/listings/{id}             GET /v1/listings/{id}/reviews
  GET /v1/listings/{id}/calendar    GET /v1/listings/{id}/host
  GET /v1/listings/{id}/occupancy   GET /healthz

The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, cfg, closeSrc, err := c.source(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			return server.Serve(ctx, addr, src, loggerFromContext(ctx))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}

// mcpCommand creates the mcp command, which serves the tools over stdio.
func (c *CLI) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the listing operations as MCP tools over stdio",
		Long: `Serve the listing operations as Model Context Protocol tools.

The server speaks JSON-RPC on stdin and stdout; logs go to stderr. Register
it with an MCP client as:

  {"command": "stayscout", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, _, closeSrc, err := c.source(ctx)
			if err != nil {
				return err
			}
			defer closeSrc()
			return server.ServeStdio(ctx, src, loggerFromContext(ctx))
		},
	}
}
