package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pfrederiksen/webutils/internal/app"
	"github.com/pfrederiksen/webutils/internal/config"
	"github.com/pfrederiksen/webutils/internal/logger"
	"github.com/pfrederiksen/webutils/internal/metrics"
)

const (
	ExitSuccess       = 0
	ExitError         = 1
	ExitRequestFailed = 2
)

// errRequestFailed reports that an http subcommand got an error reply. The
// reply has already been written.
var errRequestFailed = errors.New("request failed")

// rootOptions holds the global flags and the state shared by subcommands
type rootOptions struct {
	configFile string
	envFile    string
	format     string
	verbose    bool
	metrics    bool

	registry  *prometheus.Registry
	logStream *os.File
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logStream: os.Stderr}

	cmd := &cobra.Command{
		Use:   "webutils",
		Short: "Client-side web helpers from the command line",
		Long: `A CLI for the webutils helpers: parse query parameters, format dates,
read and write session, cookie or local storage, and send JSON requests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.outputFormat(); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded if present")
	flags.StringVar(&opts.format, "format", "text", "Output format: text or json")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	flags.BoolVar(&opts.metrics, "metrics", false, "Print collected metrics to stderr when done")

	cmd.AddCommand(
		newQueryCmd(opts),
		newDateCmd(opts),
		newStorageCmd(opts),
		newHTTPCmd(opts),
	)

	return cmd
}

func (o *rootOptions) outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(o.format))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
	}
	return format, nil
}

// loadConfig reads settings; --verbose forces debug logging
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: o.configFile,
		EnvFile:    o.envFile,
	})
	if err != nil {
		return nil, err
	}
	if o.verbose {
		cfg.LogLevel = string(logger.LevelDebug)
	}
	return cfg, nil
}

// newApp builds the helpers from configuration. The caller closes the App.
func (o *rootOptions) newApp(cfg *config.Config) (*app.App, error) {
	log, err := logger.FromName(cfg.LogLevel, o.logStream)
	if err != nil {
		return nil, err
	}

	o.registry = prometheus.NewRegistry()
	a, err := app.New(cfg, log, metrics.New(o.registry))
	if err != nil {
		return nil, fmt.Errorf("initializing: %w", err)
	}
	log.Debug("config loaded",
		zap.String("config_file", o.configFile),
		zap.String("strategy", cfg.Storage.Strategy))
	return a, nil
}

func (o *rootOptions) writeMetrics(w io.Writer) error {
	if !o.metrics || o.registry == nil {
		return nil
	}
	return metrics.WriteText(w, o.registry)
}

// Execute runs the CLI
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errRequestFailed) {
			os.Exit(ExitRequestFailed)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
