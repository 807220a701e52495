package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ethanolivertroy/depscan/internal/models"
	"github.com/ethanolivertroy/depscan/internal/reporter"
	"github.com/ethanolivertroy/depscan/internal/scanner"
)

var (
	flagConfig  string
	flagOutput  string
	flagFormat  string
	flagExclude []string
	flagNoFail  bool
	flagVerbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "depscan [paths...]",
	Short: "Analyze dependency declarations across components and detect version conflicts",
	Long: `depscan scans a directory of independently-maintained components, parses
each one's Python dependency declarations (requirements.txt variants,
pyproject.toml, setup.py), and reports whether the declared version
constraints are mutually satisfiable.

Each direct subdirectory of a scanned path that contains a recognized
dependency file is treated as one component. Conflicts are classified as
CRITICAL (no single version can satisfy every component) or WARNING
(requirements differ but may still overlap).

Examples:
  # Scan the subdirectories of the current directory
  depscan

  # Scan specific paths
  depscan ./tools ./services

  # Output as JSON or Markdown
  depscan --format json
  depscan --format markdown --output report.md

  # Exclude extra directory names from discovery
  depscan --exclude build --exclude dist

  # Always exit 0 even when conflicts are found
  depscan --no-fail`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScan,
}

// exitCodeError carries the process exit code for conflict outcomes so
// runScan can return through cobra's error path and let deferred cleanup
// run before the process exits.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitCodeError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Config file (default: .depscan.yaml in the current directory)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "Output format: text, json, markdown")
	rootCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "Additional directory names to exclude from discovery")
	rootCmd.Flags().BoolVar(&flagNoFail, "no-fail", false, "Don't exit with an error code when conflicts are found")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// loadConfig layers viper's config file and environment under the command
// line flags.
func loadConfig(cmd *cobra.Command, args []string) (*models.Config, error) {
	v := viper.New()
	v.SetConfigName(".depscan")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if flagConfig != "" {
		v.SetConfigFile(flagConfig)
	}
	v.SetEnvPrefix("DEPSCAN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := models.DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Flags override the config file.
	if len(args) > 0 {
		config.Paths = args
	}
	if cmd.Flags().Changed("format") {
		config.OutputFormat = flagFormat
	}
	if cmd.Flags().Changed("output") {
		config.OutputFile = flagOutput
	}
	if cmd.Flags().Changed("verbose") {
		config.Verbose = flagVerbose
	}
	config.Exclude = append(config.Exclude, flagExclude...)
	if flagNoFail {
		config.FailOnConflict = false
	}
	return config, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if config.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s := scanner.New(config, log)
	result, err := s.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	rep := reporter.Get(config.OutputFormat)
	output, err := rep.Report(result)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if config.OutputFile != "" {
		if err := os.WriteFile(config.OutputFile, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", config.OutputFile)
	} else {
		fmt.Print(string(output))
	}

	if config.FailOnConflict {
		if result.CriticalCount() > 0 {
			return &exitCodeError{code: 2}
		}
		if len(result.Conflicts) > 0 {
			return &exitCodeError{code: 1}
		}
	}
	return nil
}
