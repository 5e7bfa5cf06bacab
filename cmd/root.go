package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/shopadmin/config"
	"github.com/s0up4200/shopadmin/filter"
	"github.com/s0up4200/shopadmin/graph"
	"github.com/s0up4200/shopadmin/payments"
	"github.com/s0up4200/shopadmin/refund"
	"github.com/s0up4200/shopadmin/shopify"
	"github.com/s0up4200/shopadmin/user"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	client          *shopify.Client
	refundService   refund.API
	userService     user.API
	paymentsService payments.API
	graphService    graph.API

	formatter = NewConsoleFormatter()
	compiler  *filter.Compiler

	// Global flags
	outputFormat string
	whereExpr    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shopadmin",
	Short: "Inspect refunds, staff users and Shopify Payments of a Shopify store",
	Long: `shopadmin is a CLI for the Shopify Admin API. It lists and creates order
refunds, shows staff accounts, reports Shopify Payments balances, payouts,
disputes and transactions, and runs GraphQL Admin API queries.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table or json (default from config)")
	rootCmd.PersistentFlags().StringVarP(&whereExpr, "where", "w", "", "filter listed records with an expression, or @preset")
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	// Command line output format wins over config
	if cmd.Flags().Changed("output") {
		if err := config.ValidateOutputFormat(outputFormat); err != nil {
			return err
		}
		cfg.Output.Format = outputFormat
	}

	client, err = shopify.NewClient(cfg.Shopify.Shop, cfg.Shopify.AccessToken, logger,
		shopify.WithAPIVersion(cfg.Shopify.APIVersion),
		shopify.WithTimeout(cfg.Shopify.Timeout),
		shopify.WithRetryMax(cfg.Shopify.RetryMax),
		shopify.WithUserAgent(userAgent(cfg.Shopify.UserAgent)),
	)
	if err != nil {
		return fmt.Errorf("failed to create Shopify client: %w", err)
	}

	refundService = refund.NewService(client)
	userService = user.NewService(client)
	paymentsService = payments.NewService(client)
	graphService = graph.NewService(client)
	compiler = filter.NewCompiler(filter.WithCache(32), filter.WithPresets(cfg.Filter.Presets))

	logger.Debug().
		Str("shop", client.ShopURL()).
		Str("api_version", client.APIVersion()).
		Msg("Shopify client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colour only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func userAgent(base string) string {
	if base == "" {
		base = shopify.DefaultUserAgent
	}
	return base + "/" + version
}

// skipInit replaces initializeApp for commands that need no shop connection
func skipInit(cmd *cobra.Command, args []string) error {
	return nil
}

// matcher compiles the --where expression. A nil matcher keeps every record.
func matcher() (filter.Matcher, error) {
	if whereExpr == "" {
		return nil, nil
	}
	f, err := compiler.Compile(whereExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid --where expression: %w", err)
	}
	return f, nil
}

// printList filters records with --where and prints them in the configured format
func printList[T any](cmd *cobra.Command, items []T, render func([]T) string) error {
	m, err := matcher()
	if err != nil {
		return err
	}
	items, err = filter.Apply(m, items)
	if err != nil {
		return err
	}
	return writeOutput(cmd, items, func() string { return render(items) })
}

// writeOutput writes v as JSON or as the console rendering
func writeOutput(cmd *cobra.Command, v any, render func() string) error {
	if cfg != nil && cfg.Output.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	_, err := fmt.Fprint(cmd.OutOrStdout(), render())
	return err
}

// parseIDs parses Shopify numeric IDs given as arguments or flags
func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("invalid ID %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
