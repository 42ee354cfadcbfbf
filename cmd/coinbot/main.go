package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/coinbot"
	"github.com/raykavin/coinbot/pkg/config"
	"github.com/raykavin/coinbot/pkg/core"
	"github.com/raykavin/coinbot/pkg/exchange/binance"
	"github.com/raykavin/coinbot/pkg/exchange/coingecko"
	"github.com/raykavin/coinbot/pkg/format"
	"github.com/raykavin/coinbot/pkg/logger"
	"github.com/raykavin/coinbot/pkg/logger/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	envFile string
	source  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "coinbot",
		Short:         "Chat bot tracking a watchlist of coin prices",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Dotenv file read before the environment")
	rootCmd.PersistentFlags().StringVar(&source, "source", "", "Price source override (coingecko or binance)")

	rootCmd.AddCommand(buildRunCmd(), buildQuoteCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the chat bot and the daily broadcast",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	appConfig, log, err := setup()
	if err != nil {
		return err
	}

	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := coinbot.NewBot(ctx, &appConfig.Settings, newPriceSource(appConfig.Settings.Price, log), log)
	if err != nil {
		return err
	}

	return bot.Run(ctx)
}

// setup loads the configuration and builds the logger
func setup() (*config.AppConfig, logger.Logger, error) {
	appConfig, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}

	if source != "" {
		appConfig.Settings.Price.Source = source
	}

	log, err := zerolog.New(zerolog.Options{
		Level:      appConfig.Log.Level,
		TimeFormat: appConfig.Log.TimeFormat,
		Colored:    appConfig.Log.Colored,
		JSON:       appConfig.Log.JSON,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return appConfig, log, nil
}

// newPriceSource builds the configured market data source
func newPriceSource(settings core.PriceSettings, log logger.Logger) core.PriceSource {
	switch settings.Source {
	case "binance":
		options := []binance.Option{binance.WithTimeout(settings.Timeout)}
		if settings.BaseURL != "" {
			options = append(options, binance.WithBaseURL(settings.BaseURL))
		}
		return binance.NewTicker(log, options...)
	default:
		options := []coingecko.Option{coingecko.WithTimeout(settings.Timeout)}
		if settings.BaseURL != "" {
			options = append(options, coingecko.WithBaseURL(settings.BaseURL))
		}
		return coingecko.New(log, options...)
	}
}

func buildQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <coin>...",
		Short: "Print the current price of one or more coins",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuote,
	}
}

func runQuote(cmd *cobra.Command, args []string) error {
	appConfig, log, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	priceSource := newPriceSource(appConfig.Settings.Price, log)
	entries := make([]format.Entry, 0, len(args))

	progressBar := progressbar.Default(int64(len(args)), "fetching")
	for _, arg := range args {
		symbol, err := core.ParseSymbol(arg)
		if err != nil {
			log.WithError(err).Warn("skipping coin")
			_ = progressBar.Add(1)
			continue
		}

		quote, ok := priceSource.FetchPrice(ctx, symbol)
		entries = append(entries, format.Entry{Symbol: symbol, Quote: quote, OK: ok})
		_ = progressBar.Add(1)
	}

	printQuotes(os.Stdout, priceSource.Name(), entries)
	return nil
}

// printQuotes renders the fetched quotes as a table
func printQuotes(out io.Writer, sourceName string, entries []format.Entry) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Coin", "Price (USD)", "24h", ""})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER,
	})
	table.SetFooter([]string{"Source", sourceName, "", ""})

	for _, entry := range entries {
		if !entry.OK {
			table.Append([]string{entry.Symbol.Display(), "unavailable", "-", ""})
			continue
		}
		table.Append([]string{
			entry.Symbol.Display(),
			format.Price(entry.Quote.Price),
			format.Change(entry.Quote.Change24h) + "%",
			format.Indicator(entry.Quote),
		})
	}

	fmt.Fprintln(out)
	table.Render()
}
