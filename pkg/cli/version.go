package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// VersionOutput represents JSON output format
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show feignbridge version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := VersionOutput{
			Version: Version,
			Commit:  Commit,
			Date:    BuildDate,
			Go:      runtime.Version(),
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if v.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
				v.Version = info.Main.Version
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if v.Commit == "none" {
						v.Commit = setting.Value
					}
				case "vcs.time":
					if v.Date == "unknown" {
						v.Date = setting.Value
					}
				}
			}
		}

		return printResult(cmd, v, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "feignbridge %s (commit %s, built %s)\n", v.Version, v.Commit, v.Date)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s\n", v.Go, v.OS, v.Arch)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
