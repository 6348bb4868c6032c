package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version/build metadata",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"offline": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd, build)
		},
	}
}

func printVersion(cmd *cobra.Command, build BuildInfo) {
	version := build.Version
	if version == "" || version == "N/A" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}

	tmpl := `Build version: %s
Build date: %s
Build commit: %s
`
	fmt.Fprintf(cmd.OutOrStdout(), tmpl, orNA(version), orNA(build.Date), orNA(build.Commit))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
