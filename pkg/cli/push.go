package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/dispatch"
	"github.com/getmockd/feignbridge/pkg/monitor"
	"github.com/getmockd/feignbridge/pkg/store"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Send every configured mock to the agent once",
	Long: `Send every mock listed under "mocks" in the config file to the agent,
in signature order. Blank entries are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(agentOverrides(cmd))
		if err != nil {
			return err
		}
		st := store.NewMemory(nil)
		if err := seedMocks(cmd.Context(), st, cfg.Mocks); err != nil {
			return err
		}

		log := oneShotLogger(cmd, cfg)
		d := dispatch.New(newAgentClient(cmd, cfg), nil, st, dispatch.WithLogger(log))
		report := monitor.New(d, st, monitor.WithLogger(log)).Push(cmd.Context())

		if err := printResult(cmd, report, func() {
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d, failed %d, skipped %d\n", report.Sent, report.Failed, report.Skipped)
		}); err != nil {
			return err
		}
		if report.Failed > 0 {
			return ErrPushFailed
		}
		return nil
	},
}

func init() {
	addAgentFlags(pushCmd)
	rootCmd.AddCommand(pushCmd)
}
