package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/integration"
	"github.com/valter-silva-au/ogit/internal/observability"
)

const (
	locStatusSummary = "284e4370-f306-4ca3-abe4-8423f67eb661"
	locStatusFailed  = "dacc1d04-52e7-4a49-9bd0-36db29a059f7"
)

var statusIgnored bool

// Style definitions.
var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	stagedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	unstagedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	untrackedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ignoredStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cleanStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show staged, unstaged and untracked files",
	Long: `Show the working tree status grouped into staged changes, unstaged
changes and untracked files. Use --ignored to also list files matched by
the repository's ignore rules.

At debug level the full status is recorded as an event.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := requireLogger()
		if err != nil {
			return err
		}
		repo, err := openRepository()
		if err != nil {
			return err
		}

		st, err := repo.Status(statusIgnored)
		if err != nil {
			return logFailure(log, locStatusFailed, err, "reading status", nil)
		}

		printStatus(cmd.OutOrStdout(), repo.Root(), st)

		return log.DebugLazy(locStatusSummary, func() (string, observability.Fields) {
			return "repository status", statusFields(repo.Root(), st)
		})
	},
}

func statusFields(root string, st *integration.Status) observability.Fields {
	fields := observability.Fields{
		"root":      root,
		"clean":     st.Clean(),
		"staged":    st.Staged,
		"unstaged":  st.Unstaged,
		"untracked": st.Untracked,
	}
	if st.Ignored != nil {
		fields["ignored"] = st.Ignored
	}
	return fields
}

// printStatus prints each non-empty group under a styled heading.
func printStatus(w io.Writer, root string, st *integration.Status) {
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Repository:"), root)
	if st.Clean() && len(st.Ignored) == 0 {
		fmt.Fprintln(w, cleanStyle.Render("Nothing to save, working tree clean."))
		return
	}
	printStatusGroup(w, "Staged changes", stagedStyle, st.Staged)
	printStatusGroup(w, "Changes not staged", unstagedStyle, st.Unstaged)
	printStatusGroup(w, "Untracked files", untrackedStyle, st.Untracked)
	printStatusGroup(w, "Ignored files", ignoredStyle, st.Ignored)
}

func printStatusGroup(w io.Writer, title string, style lipgloss.Style, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(paths))))
	for _, p := range paths {
		fmt.Fprintf(w, "  %s\n", style.Render(p))
	}
}

func init() {
	statusCmd.Flags().BoolVar(&statusIgnored, "ignored", false, "Also list ignored files")
	rootCmd.AddCommand(statusCmd)
}
