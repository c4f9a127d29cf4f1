package cmd

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"pichu-go/internal/rates"
	"text/tabwriter"
)

func newRatesCmd(opts *rootOptions) *cobra.Command {
	var inspect, table bool

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Print the resolved rate table as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			res := opts.resolver(cfg).Resolve(cmd.Context())

			if table {
				return printRates(cmd, res)
			}

			var out any = res.Config
			if inspect {
				out = res
			}
			return printJSON(cmd, out)
		},
	}

	cmd.Flags().BoolVar(&inspect, "inspect", false, "include source, skipped rows and fetch error")
	cmd.Flags().BoolVar(&table, "table", false, "print one key per line instead of JSON")
	cmd.MarkFlagsMutuallyExclusive("inspect", "table")

	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRates(cmd *cobra.Command, res rates.Resolution) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	for _, k := range res.Config.Keys() {
		fmt.Fprintf(w, "%s\t%v\n", k, res.Config.Value(k))
	}
	fmt.Fprintf(w, "\nsource\t%s\n", res.Source)

	return w.Flush()
}
