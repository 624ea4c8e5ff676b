package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after defaults, the config file, FEIGNBRIDGE_*
environment variables and flags have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(cmd, struct {
				Path   string         `json:"path"`
				Config *config.Config `json:"config"`
			}{path, cfg}, nil)
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
