package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/am"
)

var initForce bool

// InitCmd writes a starter schemagen.toml
var InitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter " + am.ProjectConfigName,
	Long: `Write a starter configuration file with the default settings.

An existing file is only replaced with --force, and is then kept as a
.back1 backup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := am.ProjectConfigName
		if len(args) == 1 {
			path = args[0]
		}
		if err := am.WriteDefault(path, initForce); err != nil {
			return err
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}
