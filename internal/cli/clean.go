package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/integration"
	"github.com/valter-silva-au/ogit/internal/observability"
)

const (
	locCleanStarted   = "7888ef41-a2a1-47a3-8475-22543edaa1bc"
	locCleanFailed    = "80e46c12-07a8-4c3d-82c8-d9fbd5f7bc56"
	locCleanCompleted = "21a02964-b50d-4f45-8fe0-a2b512090fa9"
)

var (
	cleanAll     bool
	cleanIgnored bool
)

var cleanCmd = &cobra.Command{
	Use:     "clean [files...]",
	Aliases: []string{"remove-untracked"},
	Short:   "Delete untracked files",
	Long: `Delete untracked files from the working tree.

Either name the files to delete or pass --all to delete every untracked
file. Named files must be untracked; if any is not, nothing is deleted.
With --ignored, files matched by the ignore rules are also eligible.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cleanAll && len(args) == 0 {
			return fmt.Errorf("no files given (use --all to remove every untracked file)")
		}

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

		err = log.Info(locCleanStarted, "removing untracked files", observability.Fields{
			"files":   files,
			"all":     cleanAll,
			"ignored": cleanIgnored,
		})
		if err != nil {
			return err
		}

		removed, err := repo.RemoveUntracked(integration.RemoveOptions{
			Files:          files,
			All:            cleanAll,
			IncludeIgnored: cleanIgnored,
		})
		if err != nil {
			return logFailure(log, locCleanFailed, err, "removing untracked files", observability.Fields{
				"files":   files,
				"removed": removed,
			})
		}

		out := cmd.OutOrStdout()
		if len(removed) == 0 {
			fmt.Fprintln(out, "No untracked files to remove.")
		}
		for _, p := range removed {
			fmt.Fprintf(out, "Removed %s\n", p)
		}

		return log.Info(locCleanCompleted, "untracked files removed", observability.Fields{
			"removed": removed,
			"count":   len(removed),
		})
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove every untracked file")
	cleanCmd.Flags().BoolVar(&cleanIgnored, "ignored", false, "Also remove ignored files")
	rootCmd.AddCommand(cleanCmd)
}
