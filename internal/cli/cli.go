// Package cli implements the lineup command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineup/internal/config"
	"github.com/matzehuels/lineup/pkg/buildinfo"
	"github.com/matzehuels/lineup/pkg/cache"
	"github.com/matzehuels/lineup/pkg/history"
	"github.com/matzehuels/lineup/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "lineup"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lineup builds show running orders that give dancers time to change",
		Long: `Lineup orders the acts of a dance show so that performers who appear in
several acts get as much rest as possible between them. Acts can be pinned to
fixed positions; everything else is placed greedily by the chosen policy.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd.Context()); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvConfigFile+")")

	root.AddCommand(c.scheduleCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads configuration once and applies its log level.
func (c *CLI) loadConfig(ctx context.Context) error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(ctx, c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.SetLogLevel(level)
	}
	return nil
}

// config returns the loaded configuration, or defaults when a command runs
// without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.New()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects which stores a command wants.
type runnerOpts struct {
	noCache   bool
	noHistory bool
}

// newRunner creates a pipeline runner backed by the configured stores.
// Callers must Close it.
func (c *CLI) newRunner(ctx context.Context, opts runnerOpts) (*pipeline.Runner, error) {
	cfg := c.config()

	var ch cache.Cache = cache.NewNullCache()
	if !opts.noCache {
		opened, err := cfg.OpenCache(ctx)
		if err != nil {
			c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "error", err)
		} else {
			ch = opened
		}
	}

	var store history.Store = history.NullStore{}
	if !opts.noHistory {
		opened, err := cfg.OpenHistory(ctx)
		if err != nil {
			_ = ch.Close()
			return nil, err
		}
		store = opened
	}

	r := pipeline.NewRunner(ch, cfg.Keyer(), store, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

// =============================================================================
// Paths
// =============================================================================

// basePath returns output if set, otherwise input with its extension
// replaced by ext.
func basePath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
