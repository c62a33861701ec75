package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	// ExitPartial means a feed was published but some teams failed
	ExitPartial = 2
)

const defaultConfigPath = "config/config.yaml"

// errPartial makes Execute exit with ExitPartial without printing an error
var errPartial = errors.New("some teams failed")

// Version is set at build time
var Version = "dev"

var (
	flagConfig   string
	flagEnvOnly  bool
	flagLogLevel string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "football-ical",
		Short: "Publish football fixtures as an iCalendar feed",
		Long: `A tool that reads team schedule pages, extracts the upcoming fixtures
and publishes them as a single iCalendar feed.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", defaultConfigPath, "Path to the YAML config file")
	cmd.PersistentFlags().BoolVar(&flagEnvOnly, "env-only", false, "Read configuration from the environment only")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override the configured log level")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	cmd.AddCommand(
		newCrawlCmd(),
		newServeCmd(),
		newExtractCmd(),
		newTeamsCmd(),
	)
	return cmd
}

// exitCode maps a command error to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, errPartial):
		return ExitPartial
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	code := exitCode(err)
	if code == ExitError {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(code)
}
