package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/integration"
	"github.com/valter-silva-au/ogit/internal/observability"
)

const (
	locSaveStarted   = "51b4ed78-7067-4943-9278-ad1fcc6806d5"
	locSaveFailed    = "6a724d47-7f9a-45be-bc02-32bf8e0a3c69"
	locSaveCompleted = "8338ed9f-f1c5-444a-b478-0918d84e7149"
)

var saveAmend bool

var saveCmd = &cobra.Command{
	Use:     "save <message> [files...]",
	Aliases: []string{"commit"},
	Short:   "Stage changes and record a commit",
	Long: `Stage changes and record them as a commit with the given message.

Without file arguments every change in the worktree is staged, including
new and deleted files. With file arguments only those paths are staged.
Use --amend to replace the most recent commit instead of adding one.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := requireLogger()
		if err != nil {
			return err
		}
		repo, err := openRepository()
		if err != nil {
			return err
		}

		message := args[0]
		files, err := repoPaths(repo.Root(), args[1:])
		if err != nil {
			return err
		}

		err = log.Info(locSaveStarted, "saving changes", observability.Fields{
			"message": message,
			"files":   files,
			"amend":   saveAmend,
		})
		if err != nil {
			return err
		}

		hash, err := repo.Commit(integration.CommitOptions{
			Message: message,
			Files:   files,
			Amend:   saveAmend,
		})
		if err != nil {
			return logFailure(log, locSaveFailed, err, "saving changes", observability.Fields{"message": message})
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s\n", shortHash(hash), message)

		return log.Info(locSaveCompleted, "changes saved", observability.Fields{
			"commit": hash,
			"amend":  saveAmend,
		})
	},
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func init() {
	saveCmd.Flags().BoolVar(&saveAmend, "amend", false, "Replace the most recent commit")
	rootCmd.AddCommand(saveCmd)
}
