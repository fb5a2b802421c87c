// Package cli implements the listkit command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/listkit/listkit/internal/config"
	"github.com/listkit/listkit/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type contextKey string

// configKey stores the resolved configuration on the command context.
const configKey contextKey = "config"

// NewRootCmd creates the root Cobra command for the listkit CLI.
// It resolves the configuration file, wires up logging, and registers the
// view, browse, and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listkit",
		Short:   "Sort and paginate record collections",
		Long:    "listkit: sortable, paginated views over JSON and YAML record files",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cmd, cfg)
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to config file (default ./"+config.DefaultFileName+")")
	cmd.AddCommand(newViewCmd(), newBrowseCmd(), newConfigCmd())

	return cmd
}

// resolveConfig loads the configuration from the --config flag, falling back
// to a listkit.yaml in the working directory, then to the built-in defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return cfg, nil
	}

	if _, err := os.Stat(config.DefaultFileName); err == nil {
		cfg, err := config.Load(config.DefaultFileName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", config.DefaultFileName, err)
		}
		return cfg, nil
	}

	return config.Default(), nil
}

// setupLogging builds the CLI logger from the config, honoring the --debug
// flag, and attaches both the logger and the config to the command context.
func setupLogging(cmd *cobra.Command, cfg *config.Config) {
	logCfg := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Out:    cmd.ErrOrStderr(),
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logCfg.Level = "debug"
	}

	logger = logging.ComponentLogger(logging.New(logCfg), "cli")

	ctx := logger.WithContext(cmd.Context())
	ctx = context.WithValue(ctx, configKey, cfg)
	cmd.SetContext(ctx)

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
}

// configFromContext returns the config attached by PersistentPreRunE, or the
// defaults when the command runs outside the root command (tests).
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

const rootCmdExample = `  # View a page of records sorted by age, then name descending
  listkit view --input users.json --sort age,-name

  # Second page of 10, as JSON with navigation links
  listkit view --input users.json --page 2 --limit 10 --output json

  # Browse records interactively
  listkit browse --input users.json

  # Initialize a configuration file
  listkit config init

  # Validate a configuration file
  listkit config validate --config listkit.yaml`
