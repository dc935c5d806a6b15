// Ledctl configures networked LED controllers.
//
// It reads and writes a controller's mode, color and brightness over the
// controller's HTTP interface, either through an interactive terminal screen
// or through direct commands suitable for scripting.
//
// Usage:
//
//	ledctl [command] [flags]
//
// Running without arguments in a terminal opens the interactive screen.
// See 'ledctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/ledctl/internal/logging"
	"github.com/muurk/ledctl/internal/ui"
	"github.com/muurk/ledctl/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ledctl",
	Short: "LED controller configuration utility",
	Long: `Configure the mode, color and brightness of a networked LED controller.

The controller is located from the settings file, the --host/--port/--scheme
flags, or a remembered device found by 'ledctl scan'.

If no command is specified and stdout is a terminal, the interactive
configuration screen opens. Otherwise the current configuration is printed.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if ui.IsTerminal(os.Stdout) && ui.IsTerminal(os.Stdin) {
			return runTUI(cmd, args)
		}
		return runShow(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String("ledctl"))
	},
}
