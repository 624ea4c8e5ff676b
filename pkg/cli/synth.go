package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/feignbridge/pkg/cli/internal/output"
	"github.com/getmockd/feignbridge/pkg/signature"
	"github.com/getmockd/feignbridge/pkg/synth"
	"github.com/getmockd/feignbridge/pkg/typedesc"
)

var (
	synthDescriptors []string
	synthSignature   string
	synthFormat      string
	synthMaxDepth    int
	synthList        bool
)

var synthCmd = &cobra.Command{
	Use:   "synth [type]",
	Short: "Print an example value for a type or client method",
	Long: `Print an example value for a type, or for the return type of a client
method selected with --signature. Classes are resolved from the descriptor
files in the config plus any given with --descriptor.

Examples:
  feignbridge synth 'com.acme.Result<com.acme.User>' -d types.json
  feignbridge synth --signature 'com.acme.UserClient#get(java.lang.Long)'
  feignbridge synth --list`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().StringArrayVarP(&synthDescriptors, "descriptor", "d", nil, "Type descriptor file (repeatable)")
	synthCmd.Flags().StringVarP(&synthSignature, "signature", "s", "", "Client method whose return type to synthesize")
	synthCmd.Flags().StringVarP(&synthFormat, "format", "f", "json", "Output format: json, yaml")
	synthCmd.Flags().IntVar(&synthMaxDepth, "max-depth", -1, "Deepest nesting level to expand (default from config)")
	synthCmd.Flags().BoolVar(&synthList, "list", false, "List client methods and their signatures")
	rootCmd.AddCommand(synthCmd)
}

func runSynth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := typedesc.LoadRegistryFiles(append(append([]string(nil), cfg.Descriptors...), synthDescriptors...)...)
	if err != nil {
		return err
	}

	if synthList {
		return listClients(cmd, reg)
	}

	var ref typedesc.TypeRef
	switch {
	case len(args) == 1 && synthSignature != "":
		return fmt.Errorf("give either a type or --signature, not both")
	case len(args) == 1:
		if ref, err = typedesc.ParseTypeRef(args[0]); err != nil {
			return err
		}
	case synthSignature != "":
		if ref, err = returnType(reg, synthSignature); err != nil {
			return err
		}
	default:
		return ErrNoType
	}

	depth := cfg.Synth.MaxDepth
	if synthMaxDepth >= 0 {
		depth = synthMaxDepth
	}
	if depth > synth.MaxDepthLimit {
		return fmt.Errorf("max depth %d exceeds limit %d", depth, synth.MaxDepthLimit)
	}
	value := synth.New(reg, synth.WithMaxDepth(depth)).Synthesize(ref)

	var out []byte
	switch strings.ToLower(synthFormat) {
	case "json":
		out, err = synth.Render(value)
	case "yaml", "yml":
		out, err = synth.RenderYAML(value)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", synthFormat)
	}
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	_, _ = w.Write(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

func returnType(reg *typedesc.Registry, raw string) (typedesc.TypeRef, error) {
	sig, err := signature.Normalize(raw)
	if err != nil {
		return typedesc.TypeRef{}, err
	}
	for _, c := range reg.Clients() {
		for _, m := range c.Methods {
			if signature.Of(c, m) == sig {
				return m.Returns, nil
			}
		}
	}
	return typedesc.TypeRef{}, fmt.Errorf("no client method with signature %s", sig)
}

func listClients(cmd *cobra.Command, reg *typedesc.Registry) error {
	type methodRow struct {
		Signature string `json:"signature"`
		Returns   string `json:"returns"`
	}
	var rows []methodRow
	for _, c := range reg.Clients() {
		for _, m := range c.Methods {
			rows = append(rows, methodRow{Signature: signature.Of(c, m), Returns: m.Returns.String()})
		}
	}
	if rows == nil {
		rows = []methodRow{}
	}
	return printResult(cmd, rows, func() {
		tw := output.Table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "SIGNATURE\tRETURNS")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\n", r.Signature, r.Returns)
		}
		_ = tw.Flush()
	})
}
