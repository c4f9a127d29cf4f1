package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"pichu-go/internal/service/calculator"
	"text/tabwriter"
)

type quoteOptions struct {
	mode     string
	price    float64
	shipping float64
	people   float64
	asJSON   bool
}

type quoteOutput struct {
	Mode         calculator.Mode `json:"mode"`
	Participants int64           `json:"participants"`
	calculator.Result
}

func newQuoteCmd(opts *rootOptions) *cobra.Command {
	q := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Estimate the IDR price of one item",
		Long: `Estimate the per-person Rupiah price of one group-order item.

Korean prices are entered in units of 10,000 KRW (1.0 = 10,000 Won, 0.1 = 1,000 Won).
Chinese prices are entered in Yuan. Shipping is the local shipping to the warehouse
in the source currency; omit it to use the sheet default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := calculator.ParseMode(q.mode)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			res := opts.resolver(cfg).Resolve(cmd.Context())

			var shipping *float64
			if cmd.Flags().Changed("shipping") {
				shipping = &q.shipping
			}

			result, err := calculator.Calculate(calculator.Input{
				Mode:          mode,
				Price:         q.price,
				LocalShipping: shipping,
				PeopleCount:   q.people,
			}, res.Config)
			if err != nil {
				return err
			}

			out := quoteOutput{
				Mode:         mode,
				Participants: calculator.Participants(q.people),
				Result:       result,
			}

			if q.asJSON {
				return printJSON(cmd, out)
			}
			return printQuote(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&q.mode, "mode", "m", string(calculator.ModeKorea), "source country: KR or CH")
	cmd.Flags().Float64VarP(&q.price, "price", "p", 0, "item price (KR: x10,000 KRW, CH: CNY)")
	cmd.Flags().Float64VarP(&q.shipping, "shipping", "s", 0, "local shipping in source currency (default from sheet)")
	cmd.Flags().Float64VarP(&q.people, "people", "n", 1, "number of people sharing the fees")
	cmd.Flags().BoolVar(&q.asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

var idr = message.NewPrinter(language.Indonesian)

func formatIDR(v int64) string {
	return idr.Sprintf("Rp %d", v)
}

func printQuote(cmd *cobra.Command, q quoteOutput) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "Mode\t%s\t\n", q.Mode)
	fmt.Fprintf(w, "Sharing\t%d\t\n", q.Participants)
	fmt.Fprintf(w, "Price\t%s\t\n", formatIDR(q.ItemPrice))
	fmt.Fprintf(w, "Fees\t%s\t\n", formatIDR(q.Fees))
	fmt.Fprintf(w, "Total\t%s\t\n", formatIDR(q.Total))

	return w.Flush()
}
