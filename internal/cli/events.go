package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/observability"
)

var (
	eventsLevel         string
	eventsSince         string
	eventsCorrelationID string
	eventsLocation      string
	eventsFile          string
	eventsJSON          bool
)

var levelStyles = map[observability.Level]lipgloss.Style{
	observability.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	observability.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
	observability.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	observability.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show events recorded in the local event file",
	Long: `Show events previously written by the file sink, oldest first.

The file defaults to logging.file (or --log-file). Filter by minimum level,
by age with --since (a duration such as 2h or an RFC 3339 timestamp), by
correlation id or by location. Use --json to print the raw event lines.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := eventsFile
		if path == "" && Settings != nil {
			path = Settings.Logging.File
		}
		if path == "" {
			return fmt.Errorf("no event file configured (set logging.file, --log-file or --file)")
		}

		filter, err := buildEnvelopeFilter(time.Now())
		if err != nil {
			return err
		}

		envs, err := observability.ReadEnvelopes(path, filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if eventsJSON {
			for _, env := range envs {
				line, err := json.Marshal(env)
				if err != nil {
					return fmt.Errorf("encoding event: %w", err)
				}
				fmt.Fprintln(out, string(line))
			}
			return nil
		}

		if len(envs) == 0 {
			fmt.Fprintln(out, "No events found.")
			return nil
		}
		for _, env := range envs {
			printEnvelope(out, env)
		}
		return nil
	},
}

// buildEnvelopeFilter translates the command flags into a filter.
func buildEnvelopeFilter(now time.Time) (observability.EnvelopeFilter, error) {
	var filter observability.EnvelopeFilter

	if eventsLevel != "" {
		level, err := observability.ParseLevel(eventsLevel)
		if err != nil {
			return filter, err
		}
		filter.MinLevel = level
	}

	if eventsSince != "" {
		since, err := parseSince(eventsSince, now)
		if err != nil {
			return filter, err
		}
		filter.Since = &since
	}

	if eventsCorrelationID != "" {
		filter.CorrelationID = eventsCorrelationID
	}

	if eventsLocation != "" {
		if err := observability.ValidateLocation(eventsLocation); err != nil {
			return filter, err
		}
		filter.Location = eventsLocation
	}

	return filter, nil
}

// parseSince accepts either a duration before now or an absolute timestamp.
func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since %q: expected a duration (e.g. 2h) or RFC 3339 time", s)
	}
	return t, nil
}

func printEnvelope(w io.Writer, env observability.Envelope) {
	level := strings.ToUpper(env.Level.String())
	if style, ok := levelStyles[env.Level]; ok {
		level = style.Render(fmt.Sprintf("%-5s", level))
	}
	fmt.Fprintf(w, "%s %s %s [%s]\n",
		env.Time.Local().Format("2006-01-02 15:04:05"), level, env.Message, env.Location)

	if len(env.Fields) > 0 {
		keys := make([]string, 0, len(env.Fields))
		for k := range env.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "    %s=%v\n", k, env.Fields[k])
		}
	}
	if env.Exception != "" {
		fmt.Fprintf(w, "    %s\n", env.Exception)
	}
}

func init() {
	eventsCmd.Flags().StringVar(&eventsLevel, "level", "", "Minimum level to show (debug, info, warn, error)")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "Only events newer than a duration (e.g. 2h) or RFC 3339 time")
	eventsCmd.Flags().StringVar(&eventsCorrelationID, "correlation", "", "Only events with this correlation id")
	eventsCmd.Flags().StringVar(&eventsLocation, "location", "", "Only events from this location uuid")
	eventsCmd.Flags().StringVar(&eventsFile, "file", "", "Event file to read (default: logging.file)")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Print events as JSON lines")
	rootCmd.AddCommand(eventsCmd)
}
