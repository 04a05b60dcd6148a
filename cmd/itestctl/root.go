// Package itestctl is the harness's companion CLI: it does not run tests
// itself (that is the job of the test binary's TestMain, via
// engine.RunMain) but gives operators a way to validate and inspect the
// dependency graph without executing anything.
package itestctl

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes, matching the convention the harness itself uses for the
// test binary's own exit status.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// rootCmd is the entry point when itestctl is invoked with no subcommand.
var rootCmd = &cobra.Command{
	Use:   "itestctl",
	Short: "Inspect and validate an integration-test harness's dependency graph",
	Long: `itestctl discovers the setup and test declarations registered with
a harness build and validates them without running anything: it reports
name conflicts, undeclared dependencies, and cycles, and can print the
resolved dependency plan.`,
	SilenceUsage: true,
}

// SetVersion sets the version reported by "itestctl version" and
// "itestctl --version".
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command, exiting the process with ExitCodeError
// on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "itestctl version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGraphCmd())
}
