package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/signature"
)

var signatureCmd = &cobra.Command{
	Use:   "signature <signature>...",
	Short: "Normalize method signatures",
	Long: `Print each method signature in the canonical form used as a mock key:
whitespace removed and generic arguments erased.

Example:
  feignbridge signature 'com.acme.UserClient#find(java.util.List<java.lang.Long>, int)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		type sigResult struct {
			Input     string   `json:"input"`
			Signature string   `json:"signature"`
			Owner     string   `json:"owner"`
			Method    string   `json:"method"`
			Params    []string `json:"params"`
		}
		results := make([]sigResult, 0, len(args))
		for _, raw := range args {
			norm, err := signature.Normalize(raw)
			if err != nil {
				return err
			}
			parts, err := signature.Parse(norm)
			if err != nil {
				return err
			}
			params := parts.Params
			if params == nil {
				params = []string{}
			}
			results = append(results, sigResult{
				Input: raw, Signature: norm, Owner: parts.Owner, Method: parts.Method, Params: params,
			})
		}
		return printResult(cmd, results, func() {
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r.Signature)
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(signatureCmd)
}
