package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/haivivi/lincon/cmd/lincon/internal/config"
	"github.com/haivivi/lincon/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	contextName  string
	formatOutput string
	outputFile   string
	queryExpr    string

	// Global configuration (loaded at init time)
	globalConfig *config.Config

	// logger writes to stderr; set up before every command runs.
	logger = slog.New(slog.DiscardHandler)
)

// defaultContext is used for store data when no context is selected.
const defaultContext = "default"

var rootCmd = &cobra.Command{
	Use:   "lincon",
	Short: "Drive and persist linear containers",
	Long: `lincon - Drive arrays, rings, queues and stacks from operation scripts.

A script names a container and lists operations to apply in order:

  container: ring
  capacity: 2
  ops:
    - {op: push_back, value: a}
    - {op: push_front, value: b}
    - {op: pop, expect: b}

Containers can be saved to the context's snapshot store and restored later,
or exported to local files and s3:// locations.

Configuration is stored in the OS config directory ($LINCON_CONFIG_DIR
overrides it):
  macOS:   ~/Library/Application Support/lincon/
  Linux:   ~/.config/lincon/
  Windows: %AppData%/lincon/

Examples:
  lincon run -f testdata/scripts/queue.yaml
  lincon run -f ring.yaml --save r1 --format table
  lincon run -f more.yaml --from r1 --query '.items'
  lincon snapshot export r1 --to s3://backups/r1.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&contextName, "context", "c", "", "context name (default: current context)")
	pf.StringVar(&formatOutput, "format", "yaml", "output format: yaml, json, table or raw")
	pf.StringVarP(&outputFile, "output", "o", "", "write output to file")
	pf.StringVar(&queryExpr, "query", "", "jq expression applied to the output")
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
// Returns an error if the config could not be loaded (e.g., HOME not set).
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}

// resolveContextDir returns the directory of the --context flag, the
// current context, or the default context when neither is set.
func resolveContextDir() (string, error) {
	cfg, err := GetConfig()
	if err != nil {
		return "", err
	}
	if contextName == "" && cfg.CurrentContext == "" {
		return filepath.Join(cfg.ContextsDir(), defaultContext), nil
	}
	return cfg.ResolveContext(contextName)
}

// createOutput opens the -o file. Tests replace it.
var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// printResult writes each value using the global output flags. Several
// YAML values are written as separate documents.
func printResult(vs ...any) (err error) {
	format, err := cli.ParseOutputFormat(formatOutput)
	if err != nil {
		return err
	}
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, cerr := createOutput(outputFile)
		if cerr != nil {
			return fmt.Errorf("failed to create output file: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		w = f
	}
	for i, v := range vs {
		if i > 0 && (format == cli.FormatYAML || format == cli.FormatTable) {
			fmt.Fprintln(w, "---")
		}
		if err := cli.Output(v, cli.OutputOptions{Format: format, Query: queryExpr, Writer: w}); err != nil {
			return err
		}
	}
	return nil
}
