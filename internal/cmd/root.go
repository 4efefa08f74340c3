package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Gino-Tonic/LogPeek/internal/config"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitScanFailed  = 1 // input, pattern or read failure
	ExitUsage       = 2 // bad flags or configuration
	ExitWriteFailed = 3 // export or console output failure
)

// ExitError carries the exit code for a failure that has already been
// logged.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// NewRootCmd builds the logpeek command. Reports go to stdout, logs to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "logpeek --log <path> --pattern <regex> [--json <path>]",
		Short: "LogPeek: simple log parser",
		Long: `LogPeek scans a log file line by line for a case-insensitive regular
expression, reports every matching line and can save the matches to a
JSON file.

Examples:
  logpeek --log /var/log/app.log --pattern "error|timeout"
  logpeek --log "/var/log/**/*.log" --pattern oom --json oom.json
  zcat app.log.gz | logpeek --log - --pattern panic --output json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			return runScan(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.logpeek.yaml)")
	config.BindFlags(rootCmd.Flags())

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	return exitCode(rootCmd.Execute(), stderr)
}

// exitCode maps a command error to a process exit code. Errors without an
// exit code come from flag parsing or configuration and are printed here.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(stderr, "Error:", err)
	fmt.Fprintln(stderr, "Run 'logpeek --help' for usage.")
	return ExitUsage
}
