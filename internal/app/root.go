// Package app contains the Cobra command tree for flakescan.
package app

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/flakescan/internal/config"
	"github.com/blackwell-systems/flakescan/internal/logging"
	"github.com/blackwell-systems/flakescan/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "flakescan",
	Short: "Find flaky-test anti-patterns in Playwright repositories",
	Long: `flakescan walks a Playwright test repository, counts known flakiness
signals (hard waits, low-level element lookups, brittle selectors, inline
login flows) and writes a structured report plus a plain-text summary.

A scanned repository can then be graded by a hosted language model with
'flakescan score'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "flakescan", appVersion)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Use a subcommand:")
		fmt.Fprintln(out, "  scan      Scan a test repository and write the report artifacts")
		fmt.Fprintln(out, "  suggest   Print ranked remediation suggestions for a repository")
		fmt.Fprintln(out, "  score     Grade a scanned repository with a hosted language model")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/flakescan/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// appEnv is the loaded configuration and logger shared by subcommands.
type appEnv struct {
	cfg    *config.Config
	logger hclog.Logger
}

// loadAppEnv loads configuration, applies the global flags and configures
// color and logging. Logs go to the command's stderr.
func loadAppEnv(cmd *cobra.Command) (*appEnv, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor {
		cfg.Output.Color = false
	}
	output.ConfigureColor(cfg.Output.Color, os.Stdout.Fd())

	logger := logging.New("flakescan", logging.Options{
		Level:   cfg.Log.Level,
		Verbose: flagVerbose,
		Color:   cfg.Output.Color,
		Output:  cmd.ErrOrStderr(),
	})
	return &appEnv{cfg: cfg, logger: logger}, nil
}

// pathArg returns the optional positional path, defaulting to ".".
func pathArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}
