package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stayscout/pkg/buildinfo"
	"github.com/matzehuels/stayscout/pkg/config"
	"github.com/matzehuels/stayscout/pkg/integrations"
	"github.com/matzehuels/stayscout/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "stayscout"

	// maxParallel bounds concurrent lookups when a command is given several IDs.
	maxParallel = 4
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// sourceFactory builds the data source for a loaded config. The returned
// func releases its resources.
type sourceFactory func(cfg config.Config, logger *log.Logger) (integrations.Source, func() error, error)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	jsonOut    bool
	spinners   bool

	openSource sourceFactory
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		spinners:   true,
		openSource: defaultSource,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnableDebug switches to debug logging and routes fetch, cache and HTTP
// events to the logger.
func (c *CLI) EnableDebug() {
	c.SetLogLevel(LogDebug)
	observability.NewLogHooks(c.Logger).Install()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stayscout looks up short-term rental listings",
		Long: `Stayscout searches short-term rental listings and fetches details, reviews,
price calendars and host profiles. It prefers the site's structured API and
falls back to reading listing pages when that fails.

The same operations are available as an HTTP API (serve) and as MCP tools
over stdio (mcp).`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $"+config.EnvPath+" or ~/.config/stayscout/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print raw JSON")

	for _, cmd := range c.operationCommands() {
		root.AddCommand(cmd)
	}
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Source
// =============================================================================

// loadConfig reads the config selected by --config and applies --no-cache.
func (c *CLI) loadConfig() (config.Config, string, error) {
	path := config.Path(c.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, path, err
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	return cfg, path, nil
}

// source loads the config and builds the data source from it.
func (c *CLI) source(ctx context.Context) (integrations.Source, config.Config, func() error, error) {
	cfg, path, err := c.loadConfig()
	if err != nil {
		return nil, cfg, nil, err
	}
	logger := loggerFromContext(ctx)
	logger.Debug("config loaded", "path", path, "structured", cfg.Structured.Enabled, "cache", cfg.Cache.Backend)

	src, closeFn, err := c.openSource(cfg, logger)
	if err != nil {
		return nil, cfg, nil, err
	}
	return src, cfg, closeFn, nil
}

func defaultSource(cfg config.Config, logger *log.Logger) (integrations.Source, func() error, error) {
	rc, err := cfg.OpenCache()
	if err != nil {
		return nil, nil, err
	}
	return cfg.NewSource(rc, logger), rc.Close, nil
}
