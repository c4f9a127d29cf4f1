// Package cmd provides the CLI commands for pichugo.
package cmd

import (
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"log/slog"
	"os"
	"pichu-go/internal/config"
	"pichu-go/internal/logger"
	"pichu-go/internal/rates"
	"time"
)

type rootOptions struct {
	configPath string
	sheetURL   string
	timeout    time.Duration
	verbose    bool

	log *slog.Logger
}

// resolver honours --sheet-url over the configured sheet.
func (o *rootOptions) resolver(cfg *config.Config) *rates.Resolver {
	url := cfg.Sheet.URL
	if o.sheetURL != "" {
		url = o.sheetURL
	}
	timeout := cfg.Sheet.FetchTimeout
	if o.timeout > 0 {
		timeout = o.timeout
	}
	return rates.NewResolver(o.log, url, nil, timeout)
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "./config/local.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "pichugo",
		Short: "Estimate IDR prices for Korea and China group orders",
		Long: `pichugo prices a group-order item in Rupiah using the shared rate sheet.

Examples:
  pichugo rates
  pichugo rates --inspect --sheet-url https://example.com/rates.csv
  pichugo quote --mode KR --price 1.0 --people 3
  pichugo quote --mode CH --price 100 --shipping 12 --json`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()

			env := logger.EnvProd
			if opts.verbose {
				env = logger.EnvLocal
			}
			opts.log = logger.New(env, cmd.ErrOrStderr(), nil)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $CONFIG_PATH or ./config/local.yaml)")
	root.PersistentFlags().StringVar(&opts.sheetURL, "sheet-url", "", "rate sheet URL (overrides SHEET_CSV_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "sheet fetch timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRatesCmd(opts))
	root.AddCommand(newQuoteCmd(opts))

	return root
}
