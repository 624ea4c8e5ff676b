package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/agentclient"
	"github.com/getmockd/feignbridge/pkg/config"
	"github.com/getmockd/feignbridge/pkg/dispatch"
)

var (
	agentHostFlag string
	agentPortFlag int
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check whether the agent in the target application answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(agentOverrides(cmd))
		if err != nil {
			return err
		}
		client := newAgentClient(cmd, cfg)

		type pingResult struct {
			URL     string `json:"url,omitempty"`
			Reply   string `json:"reply"`
			Outcome string `json:"outcome"`
		}
		reply := client.Ping(cmd.Context())
		outcome := dispatch.Classify(reply, dispatch.ExpectPing)
		result := pingResult{URL: client.BaseURL(), Reply: reply, Outcome: outcome.String()}

		if err := printResult(cmd, result, func() {
			fmt.Fprintln(cmd.OutOrStdout(), reply)
		}); err != nil {
			return err
		}
		if outcome != dispatch.OutcomeSuccess {
			return ErrAgentNotReady
		}
		return nil
	},
}

func init() {
	addAgentFlags(pingCmd)
	rootCmd.AddCommand(pingCmd)
}

// addAgentFlags registers --agent-host and --agent-port on cmd.
func addAgentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&agentHostFlag, "agent-host", "", "Agent host (overrides config)")
	cmd.Flags().IntVar(&agentPortFlag, "agent-port", 0, "Agent port (overrides config)")
}

func agentOverrides(cmd *cobra.Command) config.Override {
	return func(c *config.Config) {
		if agentHostFlag != "" {
			c.Agent.Host = agentHostFlag
		}
		if cmd.Flags().Changed("agent-port") {
			c.Agent.Port = agentPortFlag
		}
	}
}

func newAgentClient(cmd *cobra.Command, cfg *config.Config) *agentclient.Client {
	return agentclient.New(
		agentclient.Static(cfg.Agent.Host, cfg.Agent.Port),
		agentclient.WithHTTPClient(agentclient.NewHTTPClient(cfg.Agent.DialTimeout, cfg.Agent.HeaderTimeout, cfg.Agent.Timeout)),
		agentclient.WithLogger(oneShotLogger(cmd, cfg)),
	)
}
