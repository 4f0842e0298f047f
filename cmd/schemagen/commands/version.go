package commands

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show schemagen version information",
	Long:  `Display version, build time, commit hash, and platform information for the schemagen binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		info := version.Get()

		if jsonOutput {
			data, err := json.Marshal(info, jsontext.WithIndent("  "))
			if err != nil {
				return errors.Wrap(err, "failed to format version info")
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
