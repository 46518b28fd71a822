package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/observability"
)

const (
	locDiscardStarted   = "017812c5-7295-4195-91b0-f920ec57cc2a"
	locDiscardFailed    = "ddb7f4fc-6cba-4152-b174-016adc035242"
	locDiscardCompleted = "3e7c89aa-6aeb-43da-bcaa-9081c1d4dc2f"
)

var discardCmd = &cobra.Command{
	Use:   "discard [files...]",
	Short: "Discard changes to tracked files",
	Long: `Restore tracked files in both the index and the working tree to their
contents at HEAD. Without arguments every changed tracked file is restored.
Untracked files are left alone; see "ogit clean".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := requireLogger()
		if err != nil {
			return err
		}
		repo, err := openRepository()
		if err != nil {
			return err
		}
		files, err := repoPaths(repo.Root(), args)
		if err != nil {
			return err
		}

		if err := log.Info(locDiscardStarted, "discarding changes", observability.Fields{"files": files}); err != nil {
			return err
		}

		restored, err := repo.Discard(files)
		if err != nil {
			return logFailure(log, locDiscardFailed, err, "discarding changes", observability.Fields{"files": files})
		}

		out := cmd.OutOrStdout()
		if len(restored) == 0 {
			fmt.Fprintln(out, "No changes to discard.")
		}
		for _, p := range restored {
			fmt.Fprintf(out, "Restored %s\n", p)
		}

		return log.Info(locDiscardCompleted, "changes discarded", observability.Fields{
			"restored": restored,
			"count":    len(restored),
		})
	},
}

func init() {
	rootCmd.AddCommand(discardCmd)
}
