package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"coin-dashboard-go/internal/coingecko"
	"coin-dashboard-go/internal/config"
	"coin-dashboard-go/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs. client is built from config
// unless a test has set it already.
type app struct {
	configPath string
	currency   string
	timeout    time.Duration

	cfg    config.Config
	log    *zap.Logger
	client coingecko.MarketData
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "marketcli",
		Short:        "Query cryptocurrency market data from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "./configs", "directory holding config.yml")
	root.PersistentFlags().StringVar(&a.currency, "currency", "", "quote currency (default from config)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "overall deadline of the command")

	root.AddCommand(
		newCoinsCmd(a),
		newGlobalCmd(a),
		newCategoriesCmd(a),
		newHighlightsCmd(a),
		newTrendingCmd(a),
		newPingCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.client != nil {
		if a.log == nil {
			a.log = zap.NewNop()
		}
		if a.currency == "" {
			a.currency = "usd"
		}
		return nil
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	// Logs go to stderr so tables and CSV on stdout stay clean.
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.log = log.Named("marketcli")

	if a.currency == "" {
		a.currency = cfg.Dashboard.Currency
	}
	a.client = coingecko.NewRestClient(&cfg.CoinGecko, a.log)
	return nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

// fail turns a client error into the message a user would see.
func fail(err error) error {
	if coingecko.Kind(err) == coingecko.KindInvalid {
		return err
	}
	return fmt.Errorf("%s (%w)", coingecko.Message(err), err)
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
