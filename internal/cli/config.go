package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/ogit/internal/observability"
	"gopkg.in/yaml.v3"
)

const locConfigShown = "41b7d21c-401b-47d9-883e-0d92c9290135"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration in effect for this invocation, after merging
defaults, .ogitconfig, .env, OGIT_* environment variables and flags.
The Seq API key is masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Settings == nil {
			return fmt.Errorf("configuration not loaded")
		}

		shown := *Settings
		shown.Logging.Sinks = append([]string(nil), Settings.Logging.Sinks...)
		if shown.Logging.SeqAPIKey != "" {
			shown.Logging.SeqAPIKey = "********"
		}
		if shown.Logging.CorrelationID == "" && Logger != nil {
			shown.Logging.CorrelationID = Logger.CorrelationID()
		}

		data, err := yaml.Marshal(&shown)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))

		if Logger == nil {
			return nil
		}
		return Logger.Debug(locConfigShown, "configuration shown", observability.Fields{"base_path": BasePath})
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
