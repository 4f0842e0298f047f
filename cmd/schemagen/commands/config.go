package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/am"
	"github.com/teranos/schemagen/errors"
)

// ConfigCmd groups configuration helpers
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect schemagen configuration",
	Long: `Inspect schemagen configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (SCHEMAGEN_* prefix)
3. Project config (nearest schemagen.toml, searching upwards)
4. User config (~/.schemagen/config.toml)
5. System config (/etc/schemagen/config.toml)
6. Default values`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings and where each came from",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := am.Introspect()
		if err != nil {
			return err
		}

		data := pterm.TableData{{"Key", "Value", "Source", "From"}}
		for _, s := range infos {
			data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.SourcePath})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(cmd.OutOrStdout()).Render(); err != nil {
			return errors.Wrap(err, "failed to render settings")
		}
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of " + am.ProjectConfigName,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := am.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configSchemaCmd)
}
