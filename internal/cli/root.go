package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/observability"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

const locCommandInvoked = "8cd87b0c-a050-43cb-b33d-214a85b8e97c"

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "ogit",
	Short: "ogit - git porcelain with structured event logging",
	Long: `ogit wraps everyday git operations (saving, inspecting, cleaning and
discarding changes) and records every step as a structured event.

Events are written in the compact log event format to a Seq collector
and, optionally, appended to a local JSON Lines file that can be queried
with "ogit events".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if Configure != nil {
			if err := Configure(cmd.Root().PersistentFlags()); err != nil {
				return err
			}
		}
		if Logger == nil {
			return nil
		}
		return Logger.Info(locCommandInvoked, "command invoked", observability.Fields{
			"command": cmd.CommandPath(),
			"args":    args,
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No configuration or logging is needed to print the version.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ogit %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "", "Minimum event level: debug, info, warn, error or off (default info)")
	pf.Bool("no-seq", false, "Do not send events to the Seq collector")
	pf.String("seq-url", "", "Seq raw events endpoint (default http://localhost:5341/api/events/raw?clef)")
	pf.String("log-file", "", "Also append events to this JSON Lines file")
	pf.String("correlation-id", "", "Correlation id for this invocation's events (default: a new uuid)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
